// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The chatthy Authors

// Command chatthy is the single launcher binary. Invoked as
// "chatthy serve ..." it starts the long-running chat server; any other
// invocation starts the interactive terminal client.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chatthy/chatthy/internal/backend"
	"github.com/chatthy/chatthy/internal/client"
	"github.com/chatthy/chatthy/internal/config"
	"github.com/chatthy/chatthy/internal/handler"
	"github.com/chatthy/chatthy/internal/logger"
	"github.com/chatthy/chatthy/internal/registry"
	"github.com/chatthy/chatthy/internal/server"
	"github.com/chatthy/chatthy/internal/service"
	"github.com/chatthy/chatthy/internal/store"
	"github.com/chatthy/chatthy/internal/workers"
	"github.com/chatthy/chatthy/models"
)

// Populated by linker flags during release builds.
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	args := os.Args[1:]

	if len(args) > 0 && args[0] == "serve" {
		runServer(args[1:])
		return
	}

	runClient(args)
}

func runServer(args []string) {
	printBuildInfo()

	log := logger.NewLogger("chatthy-server")

	cfg, err := config.GetStructuredConfig(args)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	backends, err := backend.NewBackends(ctx, cfg.Backends, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating backends")
	}

	reg := registry.NewRegistry(cfg.Server.DeliveryBufferDepth, log)
	services := service.NewServices(storages, backends, reg, log)

	workers.NewWorkers(
		workers.NewEvictionWorker(services.SessionService, cfg.Workers, log),
	).Run(ctx)

	h := handler.NewHandler(ctx, services, reg, cfg.App, log)

	srv, err := server.NewServer(h, services.Dispatcher, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func runClient(args []string) {
	log := logger.NewClientLogger("chatthy-client")

	cfg, err := config.GetClientConfig(args)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting client config")
	}

	app, err := client.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating client")
	}

	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client exited with error")
	}
}

func printBuildInfo() {
	info := models.NewAppBuildInfo(
		orNA(buildVersion),
		orNA(buildDate),
		orNA(buildCommit),
	)

	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}

	return v
}
