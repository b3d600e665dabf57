package database

import (
	"context"
	"database/sql"
	"fmt"

	"peoplebot-go/internal/models"

	"go.uber.org/zap"
)

func (s *Service) CreateBot(ctx context.Context, botId, userId, name, config string) (*models.Bot, error) {
	if config == "" {
		config = "{}"
	}

	_, err := s.db.ExecContext(ctx, queryInsertBot, botId, userId, name, config)
	if err != nil {
		zap.L().Error("Failed to insert bot", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert bot: %w", err)
	}

	var bot models.Bot
	err = s.db.QueryRowContext(ctx, queryGetBotById, botId).Scan(
		&bot.Id, &bot.UserId, &bot.Name, &bot.Config, &bot.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("unable to read back bot: %w", err)
	}

	zap.L().Info("Bot created", zap.String("id", bot.Id), zap.String("name", bot.Name))
	return &bot, nil
}

func (s *Service) GetBotsByUser(ctx context.Context, userId string) ([]models.Bot, error) {
	rows, err := s.db.QueryContext(ctx, queryGetBotsByUser, userId)
	if err != nil {
		zap.L().Error("Failed to query bots", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query bots: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var bots []models.Bot
	for rows.Next() {
		var bot models.Bot
		if err := rows.Scan(&bot.Id, &bot.UserId, &bot.Name, &bot.Config, &bot.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan bot row: %w", err)
		}
		bots = append(bots, bot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bot rows: %w", err)
	}

	return bots, nil
}
