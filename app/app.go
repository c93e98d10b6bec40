package app

import (
	"github.com/go-chi/jwtauth/v5"

	"github.com/mbolis/formcraft/config"
	"github.com/mbolis/formcraft/database"
	"github.com/mbolis/formcraft/generate"
	"github.com/mbolis/formcraft/storage"
)

// App is what every handler is built from.
type App struct {
	*database.Store
	// Generator is nil when no AI key is configured.
	Generator *generate.Generator
	Uploader  *storage.Uploader
	// Blobs is nil when uploads are stored inline.
	Blobs *storage.DiskStore
	Auth  *jwtauth.JWTAuth
	config.Config
}
