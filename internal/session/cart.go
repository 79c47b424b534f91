package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"unispace/internal/realtime"
	repo "unispace/internal/repository"
)

// 未ログインでのカート操作。ハンドラ側でログイン導線へ流す。
var ErrNotSignedIn = errors.New("not signed in")

// 変更イベントの購読だけを約束。realtime.Brokerが満たす。
type ChangeFeed interface {
	Subscribe(ctx context.Context, table string, fn func(realtime.Event)) (func(), error)
}

// ログイン中ユーザーのカート数量のセッション内キャッシュ。
//
// 書き込みは楽観更新：先にローカルとバッジへ反映し、そのあと
// ストアへ書く。失敗したら元の値へ戻す。加えてcart_itemsの変更
// イベントを受けるたびに全行を読み直して収束させる（再読込が正）。
type CartState struct {
	mu     sync.Mutex
	userID int64
	items  map[int64]int64 // productID -> quantity

	store repo.CartItemRepository
	badge *Badge
	feed  ChangeFeed
}

func NewCartState(userID int64, store repo.CartItemRepository, badge *Badge, feed ChangeFeed) *CartState {
	return &CartState{
		userID: userID,
		items:  map[int64]int64{},
		store:  store,
		badge:  badge,
		feed:   feed,
	}
}

func (s *CartState) Quantity(productID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[productID]
}

// UI向けのコピー
func (s *CartState) Quantities() map[int64]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64]int64, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// 数量をqtyへ合わせる。0以下は行削除と同じ扱い。
//
// 手順：
//  1. ローカルへ即時反映、バッジへ差分を足す
//  2. ストアへ書き込み（0なら削除、それ以外はupsert）
//  3. 失敗したらローカルとバッジを元へ戻してエラーを返す
//
// 成功時に追加の処理はない。最終的な整合はフィード経由の再同期が取る。
func (s *CartState) SetQuantity(ctx context.Context, productID int64, qty int64) error {
	if s.userID <= 0 {
		return ErrNotSignedIn
	}
	if qty < 0 {
		qty = 0
	}

	s.mu.Lock()
	prev := s.items[productID]
	delta := qty - prev

	if qty == 0 {
		delete(s.items, productID)
	} else {
		s.items[productID] = qty
	}
	s.mu.Unlock()

	s.badge.Adjust(delta)

	var err error
	if qty == 0 {
		err = s.store.DeleteByUserAndProduct(ctx, s.userID, productID)
	} else {
		err = s.store.Upsert(ctx, s.userID, productID, qty)
	}

	if err != nil {
		//巻き戻し。失敗を観測したその場で戻す。
		s.mu.Lock()
		if prev == 0 {
			delete(s.items, productID)
		} else {
			s.items[productID] = prev
		}
		s.mu.Unlock()

		s.badge.Adjust(-delta)
		return fmt.Errorf("cart write: %w", err)
	}

	return nil
}

// 現在値に対する増減。
func (s *CartState) Increment(ctx context.Context, productID int64, delta int64) error {
	if s.userID <= 0 {
		return ErrNotSignedIn
	}
	return s.SetQuantity(ctx, productID, s.Quantity(productID)+delta)
}

// ストアの全行を読み直してローカルとバッジを合わせる。
// 楽観更新と同じ値を上書きすることもある（それで正しい）。
func (s *CartState) Resync(ctx context.Context) error {
	if s.userID <= 0 {
		s.clear()
		return nil
	}

	rows, err := s.store.ListByUserID(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("cart resync: %w", err)
	}

	items := make(map[int64]int64, len(rows))
	var total int64 = 0
	for _, row := range rows {
		items[row.ProductID] = row.Quantity
		total += row.Quantity
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.badge.Set(total)
	return nil
}

// cart_itemsの変更イベントで再同期を回す。戻り値で購読解除。
// 自分の書き込みが着地したイベントでも再同期する（収束装置なので）。
func (s *CartState) Watch(ctx context.Context) (func(), error) {
	return s.feed.Subscribe(ctx, realtime.TableCartItems, func(realtime.Event) {
		if err := s.Resync(ctx); err != nil {
			log.Printf("session: %v", err)
		}
	})
}

// サインアウト。ローカル状態とバッジを即座に空へ。
func (s *CartState) SignOut() {
	s.clear()
}

func (s *CartState) clear() {
	s.mu.Lock()
	s.items = map[int64]int64{}
	s.mu.Unlock()
	s.badge.Reset()
}
