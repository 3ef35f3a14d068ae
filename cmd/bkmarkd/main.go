package main

import (
	"log"

	"github.com/bkmarks/bkmarkd/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ bkmarkd failed to start: %v", err)
	}
}
