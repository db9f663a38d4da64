package handler

import (
	"connecto/backend/internal/chathub"
	"connecto/backend/internal/config"
	"connecto/backend/internal/readstate"
	"connecto/backend/internal/storage"
)

// Handler тримає залежності HTTP-шару.
type Handler struct {
	Hub       *chathub.ManagerService
	Storage   storage.Storage
	ReadState *readstate.Service
	Cfg       *config.Config
}

func NewHandler(hub *chathub.ManagerService, s storage.Storage, rs *readstate.Service, cfg *config.Config) *Handler {
	return &Handler{Hub: hub, Storage: s, ReadState: rs, Cfg: cfg}
}
