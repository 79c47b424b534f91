package realtime

import (
	"context"
	"sync"
)

// プロセス内Broker。単一バイナリ構成とテストで使う。
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[string]map[int]func(Event)
	next int
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: map[string]map[int]func(Event){}}
}

func (b *MemoryBroker) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs[ev.Table]))
	for _, fn := range b.subs[ev.Table] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	//ロックの外で呼ぶ（購読側がPublishし返しても詰まらない）
	for _, fn := range fns {
		fn(ev)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context, table string, fn func(Event)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[table] == nil {
		b.subs[table] = map[int]func(Event){}
	}
	id := b.next
	b.next++
	b.subs[table][id] = fn

	stop := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[table], id)
	}
	return stop, nil
}
