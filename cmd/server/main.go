package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"batchlens/internal/classifier"
	"batchlens/internal/config"
	"batchlens/internal/handler"
	"batchlens/internal/parser"
	"batchlens/internal/registry"
	"batchlens/internal/router"
	"batchlens/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := registry.Builtin()
	analyzer := classifier.New(reg, cfg.Analyzer.MinConfidence)
	parsers := parser.NewFactory()

	batchSvc := service.NewBatchService(parsers, analyzer, reg, cfg.Analyzer.Concurrency)

	batchH := handler.NewBatchHandler(batchSvc, cfg.Analyzer.MaxFileSizeBytes())
	modelH := handler.NewModelHandler(reg)
	healthH := handler.NewHealthHandler()

	r := router.Setup(cfg, batchH, modelH, healthH)

	log.Printf("Server starting on %s (%d models registered)", cfg.Server.Port, reg.Len())
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
