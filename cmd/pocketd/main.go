package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jamtero2001/FINANCE-APP/internal/amqp"
	"github.com/jamtero2001/FINANCE-APP/internal/backend"
	"github.com/jamtero2001/FINANCE-APP/internal/config"
	"github.com/jamtero2001/FINANCE-APP/internal/ledger"
	"github.com/jamtero2001/FINANCE-APP/internal/log"
	"github.com/jamtero2001/FINANCE-APP/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting pocketd")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	result, err := factory.Create(ctx, cfg)
	if err != nil {
		logger.Error("Failed to assemble backend", "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// AMQP is optional: without it the app still works, other devices just
	// wait for the periodic refresh.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			defer amqpClient.Close()
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	var notifier ledger.Notifier
	if amqpClient != nil {
		notifier = amqpClient
	}

	engine := ledger.New(result.Cache, result.Remote, result.Scanner, notifier, ledger.Config{
		RecentLimit: cfg.RecentLimit,
	})

	// Cached state first, so there is something to show before the network
	// answers.
	if err := engine.Start(ctx); err != nil {
		logger.Error("Failed to load cached state", "error", err)
		os.Exit(1)
	}

	processor := services.NewRefreshProcessor(engine, services.RefreshProcessorConfig{
		Interval: cfg.RefreshInterval,
	})
	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start refresh processor", "error", err)
		os.Exit(1)
	}

	// Change events from other devices trigger an immediate refresh.
	if amqpClient != nil {
		go func() {
			err := amqpClient.ConsumeTransactionRecorded(ctx, func(msg *amqp.TransactionRecordedMessage) error {
				processor.Trigger()
				return nil
			})
			if err != nil && err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
		}()
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := processor.Stop(shutdownCtx); err != nil {
		logger.Warn("Refresh processor shutdown error", "error", err)
	}
	cancel()

	logger.Info("pocketd stopped gracefully")
}
