package main

import (
	"context"
	"log"

	"github.com/swapshop/marketplace-service/internal/app"
)

func main() {
	ctx := context.Background()

	a, err := app.New(ctx)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("application terminated: %v", err)
	}
}
