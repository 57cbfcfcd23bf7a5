/*
Package handler provides the HTTP handlers and routing setup for the watchsync server.

This file contains the HandleWebSocket function, which is responsible for rate
limiting, upgrading the HTTP connection to WebSocket, and starting the client
pumps. Room membership is negotiated afterwards over the socket itself.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"watchsync/internal/gateway"
	"watchsync/internal/pkg/errs"
	"watchsync/internal/pkg/limiter"
	"watchsync/internal/pkg/logx"
	"watchsync/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := gateway.NewClient(deps.Hub, conn)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", client.ConnID())

		client.ReadPump()
	}
}
