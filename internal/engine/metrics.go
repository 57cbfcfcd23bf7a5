package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchsync_rooms_created_total",
		Help: "Total rooms created",
	})

	metricRoomsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchsync_rooms_deleted_total",
		Help: "Total rooms torn down after the grace period",
	})

	metricActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "watchsync_active_rooms",
		Help: "Rooms currently held by the registry",
	})

	metricChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watchsync_chat_messages_total",
		Help: "Total chat messages appended",
	})

	metricPlaybackCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchsync_playback_commands_total",
		Help: "Successful playback commands by action",
	}, []string{"action"})
)
