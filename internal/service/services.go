package service

import (
	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/store"
)

type Services struct {
	SessionService SessionService
	Dispatcher     Dispatcher
}

func NewServices(storages *store.Storages, backends *backend.Backends, reg *registry.Registry, logger *logger.Logger) *Services {
	return &Services{
		SessionService: NewSessionService(storages, backends, reg, logger),
		Dispatcher:     NewDispatcher(storages, backends, reg, logger),
	}
}
