package main

import (
	"context"
	"log"

	"github.com/VladKovDev/bot-panel/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; the config loader falls back to real env vars
	_ = godotenv.Load()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("bot panel exited with error: %v", err)
	}
}
