package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eipsight/eipsight/src/insight/config"
	"github.com/eipsight/eipsight/src/insight/data"
	"github.com/eipsight/eipsight/src/insight/github"
	"github.com/eipsight/eipsight/src/insight/webserver"
)

func main() {
	// Connect to database first
	db := data.MustMySQL(config.MySQLDSN())

	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Load config with database (loads the settings table on the way)
	cfg := config.Load(db)
	rdb := data.MustRedis(cfg.RedisURL)

	ctx, cancel := context.WithCancel(context.Background())

	// Start multi-repo indexer service
	gh := github.NewClient(cfg.GithubAPI, cfg.GithubToken)
	go data.IndexerService(ctx, db, gh, time.Duration(cfg.PollInterval)*time.Second)

	router := webserver.New(cfg, db, rdb)

	// Create HTTP server
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("eipsight API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()
	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
