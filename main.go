package main

import (
	"context"
	"fmt"
	"os"

	"helpexchange/config"
	"helpexchange/connection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		os.Exit(1)
	}

	logger, err := connection.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if err := connection.StartServer(context.Background(), cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
