package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/mbolis/formcraft/app"
	"github.com/mbolis/formcraft/config"
	"github.com/mbolis/formcraft/database"
	"github.com/mbolis/formcraft/generate"
	"github.com/mbolis/formcraft/log"
	"github.com/mbolis/formcraft/routes"
	"github.com/mbolis/formcraft/storage"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()
	store := database.NewStore(db)

	var generator *generate.Generator
	if cfg.GeminiKey != "" {
		generator, err = generate.NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal("main.generate:", err)
		}
		defer generator.Close()
	} else {
		log.Warn("main.generate: no AI key configured, generation endpoints will fail")
	}

	var blobs *storage.DiskStore
	var blobStore storage.BlobStore
	if cfg.BlobDir != "" {
		blobs, err = storage.NewDiskStore(cfg.BlobDir, cfg.PublicURL)
		if err != nil {
			log.Fatal("main.storage:", err)
		}
		blobStore = blobs
	} else {
		log.Info("main.storage: no blob dir, uploads are stored inline")
	}

	app := app.App{
		Store:     store,
		Generator: generator,
		Uploader:  storage.NewUploader(blobStore, store),
		Blobs:     blobs,
		Auth:      jwtauth.New("HS256", []byte(cfg.TokenSecret), nil, jwt.WithAcceptableSkew(30*time.Second)),
		Config:    cfg,
	}

	handler := routes.Wire(app)

	err = runServer(ctx, cfg, handler)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  time.Minute,
		WriteTimeout: 2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("Listening on " + cfg.Url())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
