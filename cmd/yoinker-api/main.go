package main

import (
	"context"
	"flag"
	"log"

	"github.com/pevans/yoinker"
	"github.com/pevans/yoinker/config"
	"github.com/pevans/yoinker/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags default to the loaded configuration
	addr := flag.String("addr", cfg.Addr, "Listen address (YOINKER_ADDR)")
	historyDSN := flag.String("history", cfg.HistoryDSN, "Path to history database, or 'none' (YOINKER_HISTORY_DSN)")
	flag.Parse()
	cfg.Addr = *addr
	cfg.HistoryDSN = *historyDSN

	logging.Init(cfg.LogLevel, cfg.LogFormat)

	app, err := yoinker.NewApp(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer app.Close()

	if app.LLMErr != nil {
		logging.Warn("yoinkGPT disabled", "reason", app.LLMErr)
	}

	router := app.APIServer().SetupRouter()

	logging.Info("starting yoinker API server", "addr", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
