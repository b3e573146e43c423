package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/mbolis/grace-register/app"
	"github.com/mbolis/grace-register/config"
	"github.com/mbolis/grace-register/database"
	"github.com/mbolis/grace-register/httpx"
	"github.com/mbolis/grace-register/kv"
	"github.com/mbolis/grace-register/link"
	"github.com/mbolis/grace-register/log"
	"github.com/mbolis/grace-register/registration"
	"github.com/mbolis/grace-register/routes"
	"github.com/mbolis/grace-register/store"
	"github.com/mbolis/grace-register/textgen"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	blobs := kv.NewSQLite(db, cfg.StorageQuota)

	configs := store.NewConfigStore(blobs)
	if _, err = configs.Load(); err != nil {
		log.Warnf("main.configs.load: %s", err)
	}
	submissions := store.NewSubmissionStore(blobs)

	writer := textgen.NewWriter(nil)
	if cfg.GeminiAPIKey != "" {
		gemini, err := textgen.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warnf("main.textgen: %s", err)
		} else {
			writer = textgen.NewWriter(gemini)
		}
	} else {
		log.Info("No Gemini API key, using fixed texts")
	}

	app := app.App{
		DB:            db,
		BearerServer:  httpx.NewBearerServer(db, cfg),
		Config:        cfg,
		Configs:       configs,
		Submissions:   submissions,
		Resolver:      link.NewResolver(configs),
		Registrations: registration.NewService(submissions, writer),
		Writer:        writer,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30*time.Second + cfg.GenerateTimeout,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
