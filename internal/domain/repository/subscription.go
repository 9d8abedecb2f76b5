package repository

import (
	"context"
	"sync"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

const subscriptionBuffer = 16

// Subscription 変更イベントのストリーム
// 生成側は Publish で送信し、終了時に Finish を一度だけ呼ぶ
type Subscription struct {
	events chan model.ItemChangeEvent
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// NewSubscription cancel は生成側のコンテキストを止める関数
func NewSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{
		events: make(chan model.ItemChangeEvent, subscriptionBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Events 購読終了時にクローズされる
func (s *Subscription) Events() <-chan model.ItemChangeEvent {
	return s.events
}

// Done 生成側が終了するとクローズされる
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Publish ctx がキャンセルされていれば false
func (s *Subscription) Publish(ctx context.Context, event model.ItemChangeEvent) bool {
	select {
	case s.events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Subscription) Finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.events)
	close(s.done)
}

// Err 購読が異常終了した場合のエラー
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close 購読を解除し、生成側の終了を待つ
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}
