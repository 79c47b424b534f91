package repository

import (
	"context"

	"unispace/internal/domain/model"
)

type MessageListFilter struct {
	Page   int
	Limit  int
	Status string
}

// お問い合わせの約束。追記とステータス更新のみ。
type MessageRepository interface {
	Create(ctx context.Context, m model.Message) (model.Message, error)
	FindByID(ctx context.Context, id int64) (model.Message, error)
	List(ctx context.Context, f MessageListFilter) ([]model.Message, int64, error)
	UpdateStatus(ctx context.Context, id int64, status model.MessageStatus) error

	// statusが空なら全件
	Count(ctx context.Context, status string) (int64, error)
}
