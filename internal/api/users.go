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

	"expense-ledger-go/internal/models"
)

// RegisterUser creates a user bound to externalUserId.
func (s *LedgerService) RegisterUser(ctx context.Context, username, externalUserId string) (*models.User, error) {
	return s.registrar.Register(ctx, username, externalUserId)
}

// ResolveUser returns store.ErrUserNotFound for unregistered identifiers.
func (s *LedgerService) ResolveUser(ctx context.Context, externalUserId string) (*models.User, error) {
	return s.resolver.Resolve(ctx, externalUserId)
}
