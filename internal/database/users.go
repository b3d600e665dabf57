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
	"strings"

	"peoplebot-go/internal/models"
	"peoplebot-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) CreateUser(ctx context.Context, userId, username, passwordHash string) (*models.User, error) {
	zap.L().Info("Creating user", zap.String("id", userId), zap.String("username", username))

	_, err := s.db.ExecContext(ctx, queryInsertUser, userId, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, store.ErrDuplicateUser
		}
		zap.L().Error("Failed to insert user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("unable to insert user: %w", err)
	}

	return s.GetUserById(ctx, userId)
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserById, userId).Scan(
		&user.Id, &user.Username, &user.PasswordHash, &user.ChatId, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		zap.L().Error("Failed to query user by ID", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by ID: %w", err)
	}

	return &user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserByUsername, username).Scan(
		&user.Id, &user.Username, &user.PasswordHash, &user.ChatId, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		zap.L().Error("Failed to query user by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by username: %w", err)
	}

	return &user, nil
}

func (s *Service) SetUserChatId(ctx context.Context, userId, chatId string) error {
	result, err := s.db.ExecContext(ctx, querySetUserChatId, chatId, userId)
	if err != nil {
		zap.L().Error("Failed to set chat id", zap.String("user_id", userId), zap.Error(err))
		return fmt.Errorf("unable to set chat id: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to check chat id update: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}

	zap.L().Info("Linked chat session", zap.String("user_id", userId), zap.String("chat_id", chatId))
	return nil
}
