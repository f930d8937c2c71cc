// Command server runs the Mom's Flavor backend HTTP server.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables;
// AUTH_JWT_SECRET is required. Without DATABASE_DSN the server runs entirely
// on the embedded local store.
//
// Exit codes: 0 = clean shutdown, 1 = startup or runtime error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/momsflavor/backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
