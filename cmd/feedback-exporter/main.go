/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-ledger-go/internal/common"
	"expense-ledger-go/internal/config"
	"expense-ledger-go/internal/exporter"

	"go.uber.org/zap"
)

func main() {
	once := flag.Bool("once", false, "Export the current backlog and exit instead of polling")
	cursorName := flag.String("cursor", exporter.DefaultCursorName, "Name of the export cursor to track")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting categorization feedback exporter")

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	publisher, err := exporter.NewAMQPPublisher(cfg.Exporter.AmqpURL, cfg.Exporter.Exchange, cfg.Exporter.Queue)
	if err != nil {
		zap.L().Fatal("Failed to connect to AMQP broker", zap.Error(err))
	}
	defer publisher.Close()

	exp, err := exporter.New(exporter.Config{
		Store:           dbService,
		Publisher:       publisher,
		CursorName:      *cursorName,
		PollingInterval: cfg.Exporter.PollingInterval,
		BatchSize:       cfg.Exporter.BatchSize,
	})
	if err != nil {
		zap.L().Fatal("Invalid exporter configuration", zap.Error(err))
	}

	if *once {
		n, err := exp.Drain(ctx)
		if err != nil {
			zap.L().Fatal("Export failed", zap.Int("exported", n), zap.Error(err))
		}
		zap.L().Info("Export complete", zap.Int("exported", n))
		return
	}

	if err := exp.Start(ctx); err != nil {
		zap.L().Fatal("Failed to start exporter", zap.Error(err))
	}
	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping exporter...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		exp.Stop()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Exporter stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
