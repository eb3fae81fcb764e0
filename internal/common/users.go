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
	"fmt"

	"expense-ledger-go/internal/store"

	"go.uber.org/zap"
)

// UserInfo represents simplified user information for command-line utilities
type UserInfo struct {
	Id         string
	Username   string
	ExternalId string
}

// LookupUsers returns the user bound to externalFilter, or every user when
// the filter is empty.
func LookupUsers(ctx context.Context, dbService store.LedgerStore, externalFilter string) ([]UserInfo, error) {
	var users []UserInfo

	if externalFilter != "" {
		zap.L().Info("Looking up user by external id", zap.String("external_id", externalFilter))
		user, err := dbService.GetUserByExternalId(ctx, externalFilter)
		if err != nil {
			return nil, fmt.Errorf("user lookup failed: %w", err)
		}
		users = append(users, UserInfo{Id: user.Id, Username: user.Username, ExternalId: user.ExternalId})
	} else {
		allUsers, err := dbService.GetUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get users: %w", err)
		}
		for _, u := range allUsers {
			users = append(users, UserInfo{Id: u.Id, Username: u.Username, ExternalId: u.ExternalId})
		}
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}
