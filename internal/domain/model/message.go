package model

import "time"

type MessageStatus string

const (
	MessageStatusUnread MessageStatus = "unread"
	MessageStatusRead   MessageStatus = "read"
)

// お問い合わせ。statusの unread→read 以外は更新しない（追記専用）。
type Message struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	Email     string        `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string        `gorm:"type:varchar(30)" json:"phone"`
	Body      string        `gorm:"type:text;not null" json:"body"`
	Status    MessageStatus `gorm:"type:varchar(20);not null;default:'unread';index" json:"status"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
}
