package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"ozzus/domain-scout/internal/cli"
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	if err := cli.Execute(); err != nil {
		log.Fatalf("scout: %v", err)
	}
}
