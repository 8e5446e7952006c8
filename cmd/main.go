package main

import (
	"log"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/vinm0/sheets-token/pkg/config"

	// Blank import to trigger the init() in function.go which registers the handler
	_ "github.com/vinm0/sheets-token"
)

func main() {
	// Load .env file if it exists to simplify local development
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %v\n", err)
	}
	if err := funcframework.Start(cfg.Port); err != nil {
		log.Fatalf("funcframework.Start: %v\n", err)
	}
}
