package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/gamestore-client/internal/app/mockapi"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mockapi.Run(ctx); err != nil {
		log.Fatalf("mock marketplace failed: %v", err)
	}
}
