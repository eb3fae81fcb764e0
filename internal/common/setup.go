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

package common

import (
	"context"
	"log"
	"strings"

	"expense-ledger-go/internal/api"
	"expense-ledger-go/internal/categorizer"
	"expense-ledger-go/internal/database"
	"expense-ledger-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService  *database.Service
	ApiService *api.LedgerService
	Categories *categorizer.CategoriesConfig
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the database and builds the ledger service with
// the AI categorizer. The keyword classifier is added as a fallback when the
// categories file can be loaded.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	predictors := categorizer.Chain{categorizer.NewHTTPClient(cfg.Categorizer)}

	categories, err := categorizer.LoadCategories(cfg.Categorizer.CategoriesFile)
	if err != nil {
		zap.L().Warn("Keyword fallback disabled",
			zap.String("file", cfg.Categorizer.CategoriesFile),
			zap.Error(err))
	} else {
		predictors = append(predictors, categorizer.NewKeywordClassifier(categories))
		zap.L().Info("Loaded categories", zap.Int("count", len(categories.Categories)))
	}

	apiService := api.NewLedgerService(dbService,
		api.WithPredictor(predictors, cfg.Categorizer.ConfidenceThreshold))

	return &Services{
		DbService:  dbService,
		ApiService: apiService,
		Categories: categories,
	}, nil
}

// InitializeDatabaseOnly initializes just the database service
// Useful for the exporter, which never talks to the categorizer
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
