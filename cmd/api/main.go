package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"transactions-compare/cmd/api/app"
	"transactions-compare/cmd/api/server"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		application.Logger.Fatal("application exited with error", zap.Error(err))
	}
}
