package handler

import (
	"watchsync/internal/configs"
	"watchsync/internal/engine"
	"watchsync/internal/gateway"
)

type AppDeps struct {
	Hub    *gateway.Hub
	Engine *engine.Registry
	Config *configs.AppConfig
}
