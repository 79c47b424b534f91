package usecase

import (
	"context"
	"net/http"

	"unispace/internal/domain/model"
	repo "unispace/internal/repository"
)

// 管理ダッシュボードの集計。件数だけを返す。
type AdminOverviewUsecase struct {
	userRepo    repo.UserRepository
	orderRepo   repo.OrderRepository
	messageRepo repo.MessageRepository
}

func NewAdminOverviewUsecase(
	userRepo repo.UserRepository,
	orderRepo repo.OrderRepository,
	messageRepo repo.MessageRepository,
) *AdminOverviewUsecase {
	return &AdminOverviewUsecase{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		messageRepo: messageRepo,
	}
}

type AdminOverviewOutput struct {
	TotalUsers    int64 `json:"total_users"`
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
	TotalMessages int64 `json:"total_messages"`
}

func (u *AdminOverviewUsecase) Overview(ctx context.Context, actorAdminUserID int64) (AdminOverviewOutput, error) {
	if actorAdminUserID <= 0 {
		return AdminOverviewOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out AdminOverviewOutput
	var err error

	if out.TotalUsers, err = u.userRepo.Count(ctx); err != nil {
		return AdminOverviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.TotalOrders, err = u.orderRepo.Count(ctx, ""); err != nil {
		return AdminOverviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.PendingOrders, err = u.orderRepo.Count(ctx, string(model.OrderStatusPending)); err != nil {
		return AdminOverviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.TotalMessages, err = u.messageRepo.Count(ctx, ""); err != nil {
		return AdminOverviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return out, nil
}
