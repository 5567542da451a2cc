package main

import (
	"context"
	"log"

	"github.com/ravengallery/gallery-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("gallery api: %v", err)
	}
}
