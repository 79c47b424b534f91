package repository

import (
	"context"
	"errors"

	"unispace/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// アクティブ状態・ロール・最終ログインなどの更新
	Update(ctx context.Context, user *model.User) error

	// 登録ユーザー数
	Count(ctx context.Context) (int64, error)
}
