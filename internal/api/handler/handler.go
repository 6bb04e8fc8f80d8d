package handler

import (
	"villago/backend/internal/chathub"
	"villago/backend/internal/moderation"
	"villago/backend/internal/storage"
)

// Handler bundles the chat gateway and the thin REST surface around it.
type Handler struct {
	Gateway    *chathub.Gateway
	Storage    storage.Storage
	Moderation *moderation.Service

	jwtSecret []byte
}

func NewHandler(gateway *chathub.Gateway, s storage.Storage, mod *moderation.Service, jwtSecret string) *Handler {
	return &Handler{
		Gateway:    gateway,
		Storage:    s,
		Moderation: mod,
		jwtSecret:  []byte(jwtSecret),
	}
}
