package session

import "sync"

// カートバッジの合計数。全ページ共通で使う集計値で、
// ログインセッションと同じ寿命を持つ。
type Badge struct {
	mu    sync.Mutex
	total int64
	subs  map[int]func(int64)
	next  int
}

func NewBadge() *Badge {
	return &Badge{subs: map[int]func(int64){}}
}

func (b *Badge) Total() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// 楽観更新用の差分調整。負になる調整は0で止める。
func (b *Badge) Adjust(delta int64) {
	b.mu.Lock()
	b.total += delta
	if b.total < 0 {
		b.total = 0
	}
	total := b.total
	fns := b.listeners()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(total)
	}
}

// 再同期後の確定値。
func (b *Badge) Set(total int64) {
	if total < 0 {
		total = 0
	}
	b.mu.Lock()
	b.total = total
	fns := b.listeners()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(total)
	}
}

// サインアウト時。古い値を見せ続けない。
func (b *Badge) Reset() {
	b.Set(0)
}

// 通知の購読。戻り値で解除する。
func (b *Badge) Subscribe(fn func(total int64)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// 呼び出し側でロックを持っていること
func (b *Badge) listeners() []func(int64) {
	fns := make([]func(int64), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	return fns
}
