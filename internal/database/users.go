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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	var externalId sql.NullString
	if err := row.Scan(&user.Id, &user.Username, &externalId, &user.CreatedAt); err != nil {
		return models.User{}, err
	}
	user.ExternalId = externalId.String
	return user, nil
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	zap.L().Debug("Querying users")

	rows, err := s.db.QueryContext(ctx, queryGetUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer closeRows(rows)

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}

		users = append(users, user)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during user row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

func (s *Service) getUserById(ctx context.Context, userId string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUserById, userId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %s", store.ErrUserNotFound, userId)
		}
		return nil, fmt.Errorf("unable to query user by ID: %w", err)
	}
	return &user, nil
}

func (s *Service) GetUserByExternalId(ctx context.Context, externalId string) (*models.User, error) {
	zap.L().Debug("Querying user by external ID", zap.String("external_id", externalId))

	user, err := scanUser(s.db.QueryRowContext(ctx, queryGetUserByExternalId, externalId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: external id %s", store.ErrUserNotFound, externalId)
		}
		zap.L().Error("Failed to query user by external ID", zap.String("external_id", externalId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by external ID: %w", err)
	}

	zap.L().Debug("Retrieved user by external ID", zap.String("external_id", externalId), zap.String("username", user.Username))
	return &user, nil
}

// CreateUser registers a user. An empty externalId is stored as NULL so that
// several users may exist without a bound chat session.
func (s *Service) CreateUser(ctx context.Context, username, externalId string) (*models.User, error) {
	userId := uuid.New().String()
	zap.L().Info("Creating user", zap.String("id", userId), zap.String("username", username), zap.String("external_id", externalId))

	ext := sql.NullString{String: externalId, Valid: externalId != ""}
	if _, err := s.db.ExecContext(ctx, queryInsertUser, userId, username, ext); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			zap.L().Warn("User already exists", zap.String("username", username), zap.String("external_id", externalId))
			return nil, fmt.Errorf("%w: %s", store.ErrDuplicateUser, username)
		}
		zap.L().Error("Failed to insert user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("unable to insert user: %w", err)
	}

	zap.L().Info("User created successfully", zap.String("id", userId), zap.String("username", username))

	// Return the created user
	return s.getUserById(ctx, userId)
}
