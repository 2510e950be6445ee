package model

import "time"

// ChatMessage is one transcript entry persisted by the background worker.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Role      string    `gorm:"size:16;not null;index" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
