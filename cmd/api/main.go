package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/devreport/year-in-review/internal/api"
	"github.com/devreport/year-in-review/internal/config"
	"github.com/devreport/year-in-review/internal/review"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Compute the report once; the server only ever serves this result
	builder := review.NewBuilder(cfg, logger)
	result, err := builder.Build(context.Background())
	if err != nil {
		log.Fatalf("Failed to build report: %v", err)
	}

	// Initialize handler
	handler := api.NewHandler(result)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)
	fmt.Printf("Serving year in review for %d\n", cfg.Year)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
