package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/The-Grit-Agencies/food-court-g4/config"
	"github.com/The-Grit-Agencies/food-court-g4/jwt"
	"github.com/The-Grit-Agencies/food-court-g4/routers"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	db, err := config.SetupDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			log.Printf("cannot close database: %v", err)
		}
	}()

	rdb := config.SetupRedisConnection(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("redis unavailable, catalog reads go to the database: %v", err)
		}
		cancel()
	}

	keys, err := jwt.LoadKeys(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	if err != nil {
		log.Printf("cannot load jwt keys (%v); using a generated key pair, sessions end on restart", err)
		keys, err = jwt.GenerateKeys(2048)
		if err != nil {
			log.Fatalf("cannot generate jwt keys: %v", err)
		}
	}

	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		log.Fatalf("cannot create upload dir: %v", err)
	}

	router, err := routers.SetupRouters(cfg, db, rdb, keys)
	if err != nil {
		log.Fatalf("cannot set up routes: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
