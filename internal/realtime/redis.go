package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis Pub/SubのBroker。複数インスタンス構成で使う。
// チャンネルは "changes:<table>"。
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(addr string, password string) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	return &RedisBroker{client: client}, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

func channelFor(table string) string {
	return "changes:" + table
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelFor(ev.Table), payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, table string, fn func(Event)) (func(), error) {
	pubsub := b.client.Subscribe(ctx, channelFor(table))

	//購読が成立するまで待つ
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	ch := pubsub.Channel()

	go func() {
		for msg := range ch {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("realtime: broken event payload: %v", err)
				continue
			}
			fn(ev)
		}
	}()

	stop := func() {
		if err := pubsub.Close(); err != nil {
			log.Printf("realtime: pubsub close: %v", err)
		}
	}
	return stop, nil
}
