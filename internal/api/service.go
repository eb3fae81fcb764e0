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

package api

import (
	"context"
	"fmt"
	"time"

	"expense-ledger-go/internal/categorizer"
	"expense-ledger-go/internal/feedback"
	"expense-ledger-go/internal/identity"
	"expense-ledger-go/internal/ledger"
	"expense-ledger-go/internal/query"
	"expense-ledger-go/internal/store"
)

// LedgerService is the boundary the chat layer and CLI talk to
type LedgerService struct {
	db        store.LedgerStore
	resolver  *identity.Resolver
	registrar *identity.Registrar
	expenses  *ledger.Ledger
	queries   *query.Engine
	feedback  *feedback.Ledger

	predictor categorizer.Predictor
	threshold float64
}

// Option customizes a LedgerService.
type Option func(*LedgerService)

// WithPredictor enables category suggestions. Suggestions with confidence
// below threshold are flagged for confirmation.
func WithPredictor(p categorizer.Predictor, threshold float64) Option {
	return func(s *LedgerService) {
		s.predictor = p
		s.threshold = threshold
	}
}

// WithClock sets the time source of the ledgers.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) {
		s.expenses.WithClock(now)
		s.feedback.WithClock(now)
	}
}

func NewLedgerService(db store.LedgerStore, opts ...Option) *LedgerService {
	resolver := identity.NewResolver(db)
	s := &LedgerService{
		db:        db,
		resolver:  resolver,
		registrar: identity.NewRegistrar(db),
		expenses:  ledger.NewLedger(resolver, db),
		queries:   query.NewEngine(resolver, db),
		feedback:  feedback.NewLedger(resolver, db),
		threshold: categorizer.DefaultConfidenceThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) HealthCheck(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", store.Unavailable("ping", err))
	}
	return nil
}
