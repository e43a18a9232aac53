package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/metinatakli/cinex-booking/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
