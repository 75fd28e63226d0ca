// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
	"github.com/Sl0thC0der/yt-download-ng/internal/hub"
	"github.com/Sl0thC0der/yt-download-ng/internal/logbuf"
	"github.com/Sl0thC0der/yt-download-ng/internal/potoken"
	"github.com/Sl0thC0der/yt-download-ng/internal/profiles"
	"github.com/Sl0thC0der/yt-download-ng/internal/runner"
	"github.com/Sl0thC0der/yt-download-ng/internal/scheduler"
	"github.com/Sl0thC0der/yt-download-ng/internal/store"
	httptransport "github.com/Sl0thC0der/yt-download-ng/internal/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// recent log lines stay queryable over /api/logs
	logs := logbuf.New(500, os.Stderr)
	log.SetOutput(logs)

	port := envIntOr("YTDL_PORT", 8080)
	root := envOr("YTDL_ROOT", "/app")
	downloadDir := envOr("YTDL_DOWNLOAD_DIR", filepath.Join(root, "downloads"))
	configDir := envOr("YTDL_CONFIG_DIR", filepath.Join(root, "config"))
	staticDir := envOr("YTDL_STATIC_DIR", filepath.Join(root, "static"))
	toolCmd := strings.Fields(envOr("YTDL_TOOL", "python3 ytdl.py"))
	potokenURL := envOr("POTOKEN_URL", potoken.DefaultProbeURL)
	potokenCmd := strings.Fields(envOr("POTOKEN_CMD", "node bgutil-pot-provider/server/build/main.js"))

	settings := entity.DefaultSettings()
	settings.MaxConcurrent = envIntOr("MAX_CONCURRENT", settings.MaxConcurrent)

	// DI
	st := store.New()
	events := hub.New()
	prof := profiles.New(configDir)
	run := runner.New(toolCmd, root)
	sched := scheduler.New(st, events, run, prof, settings)
	sched.Start(ctx)

	sup := potoken.New(potokenURL, potokenCmd, root)
	if err := sup.EnsureStarted(ctx); err != nil {
		log.Printf("[main] po token server not available: %v", err)
	}

	handler := httptransport.NewHandler(sched, st, events, prof, sup, logs, downloadDir, staticDir)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: httptransport.Routes(handler),
	}

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	log.Printf("[main] listening on :%d max_concurrent=%d downloads=%s config=%s",
		port, settings.MaxConcurrent, downloadDir, configDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
	log.Println("server stopped")
}

func envOr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
