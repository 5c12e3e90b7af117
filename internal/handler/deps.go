package handler

import (
	"linkup/internal/app/realtime"
	"linkup/internal/app/storage"
	"linkup/internal/app/store"
	"linkup/internal/configs"
)

// AppDeps bundles the shared dependencies the handlers close over.
type AppDeps struct {
	Config     *configs.AppConfig
	Registry   *realtime.Registry
	Dispatcher *realtime.Dispatcher
	Store      *store.Store
	Media      storage.MediaStorage
}
