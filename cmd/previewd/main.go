// previewd serves the browser-preview shell: the feature adapters exposed
// over HTTP, running against the local fallback store until a host bridge
// is attached.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pothipatra/internal/api"
	"pothipatra/internal/bridge"
	"pothipatra/internal/chat"
	"pothipatra/internal/people"
	"pothipatra/internal/store"
	"pothipatra/internal/utils"
	"pothipatra/internal/vault"
)

func main() {
	cfg := utils.LoadConfig()

	log := utils.NewLogger(os.Stderr)
	if cfg.LogFile != "" {
		fileLog, err := utils.NewFileLogger(cfg.LogFile)
		if err != nil {
			log.Error("open log file: %v", err)
			os.Exit(1)
		}
		defer fileLog.Close()
		log = fileLog
	}

	var master []byte
	if !cfg.PlainStore {
		key, err := store.ReadMasterKey()
		if err != nil {
			log.Warn("no master key (%v), storing records in plaintext", err)
		} else {
			master = key
		}
	}
	db, err := store.Open(cfg.DataDir, master)
	if err != nil {
		log.Error("open store: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := bridge.NewRegistry()
	mon := bridge.NewMonitor(reg)
	mon.Start(ctx)
	cor := bridge.NewCorrelator(reg, mon)

	s := &api.Server{
		Chat:   chat.New(cor, mon, log),
		Vault:  vault.New(cor, mon, db, log),
		People: people.New(cor, mon, db, log),
		Mon:    mon,
		Log:    log,
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(s),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("preview shell listening on :%s (data dir %s)", cfg.Port, cfg.DataDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server: %v", err)
		os.Exit(1)
	}
}
