package realtime

import (
	"context"
	"log"

	"unispace/internal/domain/model"
	repo "unispace/internal/repository"

	"github.com/google/uuid"
)

// CartItemRepositoryを包んで、書き込み成功のたびにcart_itemsの
// 変更イベントを流す。セッション側の再同期はこのイベントが起点。
type PublishingCartItemRepository struct {
	inner  repo.CartItemRepository
	broker Broker
}

func NewPublishingCartItemRepository(inner repo.CartItemRepository, broker Broker) *PublishingCartItemRepository {
	return &PublishingCartItemRepository{inner: inner, broker: broker}
}

func (r *PublishingCartItemRepository) publish(ctx context.Context, op string) {
	ev := Event{
		ID:    uuid.NewString(),
		Table: TableCartItems,
		Op:    op,
	}
	//通知失敗で書き込みを失敗扱いにはしない
	if err := r.broker.Publish(ctx, ev); err != nil {
		log.Printf("realtime: publish %s %s: %v", ev.Table, ev.Op, err)
	}
}

func (r *PublishingCartItemRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return r.inner.ListByUserID(ctx, userID)
}

func (r *PublishingCartItemRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	return r.inner.FindByUserAndProduct(ctx, userID, productID)
}

func (r *PublishingCartItemRepository) Upsert(ctx context.Context, userID int64, productID int64, qty int64) error {
	if err := r.inner.Upsert(ctx, userID, productID, qty); err != nil {
		return err
	}
	r.publish(ctx, OpUpdate)
	return nil
}

func (r *PublishingCartItemRepository) DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error {
	if err := r.inner.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		return err
	}
	r.publish(ctx, OpDelete)
	return nil
}

func (r *PublishingCartItemRepository) DeleteAllByUserID(ctx context.Context, userID int64) error {
	if err := r.inner.DeleteAllByUserID(ctx, userID); err != nil {
		return err
	}
	r.publish(ctx, OpDelete)
	return nil
}
