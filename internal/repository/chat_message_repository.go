package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docuchat/internal/model"
)

type ChatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Create(msg *model.ChatMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("create chat message failed: %w", err)
	}
	return nil
}

// ListRecent returns up to limit messages, oldest first.
func (r *ChatMessageRepository) ListRecent(limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	var recent []model.ChatMessage
	if err := r.db.Order("id DESC").Limit(limit).Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("list chat messages failed: %w", err)
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}
