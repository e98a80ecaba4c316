// cmd/bom-ingress/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bomdash/bom-ingress/pkg/config"
	"github.com/bomdash/bom-ingress/pkg/logging"
	"github.com/bomdash/bom-ingress/pkg/server"
)

var (
	port = flag.Int("port", 0, "server port (overrides PORT)")
	host = flag.String("host", "", "bind address (overrides HOST)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Port = *port
	}
	if *host != "" {
		cfg.Host = *host
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Storage.EnsureDirs(); err != nil {
		logger.Fatal("failed to prepare storage directories", zap.Error(err))
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	go func() {
		logger.Info("Server starting", zap.String("addr", addr))
		if err := srv.Run(addr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
}
