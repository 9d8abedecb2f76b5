package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

var ErrSessionStarted = errors.New("list session already started")

// ListSession は1つの購読を所有し、変更を反映したリストのスナップショットを配信する
// Start で購読を開始し、Close で解除する
type ListSession struct {
	subscriber repository.ItemSubscriber
	filter     model.ItemFilter
	logger     *zap.Logger

	mu    sync.Mutex
	items []model.ToDoItem
	sub   *repository.Subscription

	snapshots chan []model.ToDoItem
	done      chan struct{}
}

func NewListSession(subscriber repository.ItemSubscriber, filter model.ItemFilter, logger *zap.Logger) *ListSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListSession{
		subscriber: subscriber,
		filter:     filter,
		logger:     logger,
		snapshots:  make(chan []model.ToDoItem, 1),
		done:       make(chan struct{}),
	}
}

func (s *ListSession) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.sub != nil {
		s.mu.Unlock()
		return ErrSessionStarted
	}
	sub, err := s.subscriber.SubscribeItems(ctx, s.filter)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("リスト %s の購読に失敗: %w", s.filter.ListID, err)
	}
	s.sub = sub
	s.mu.Unlock()

	s.logger.Debug("🔔 リストの購読を開始", zap.String("listId", s.filter.ListID))
	go s.run(sub)
	return nil
}

func (s *ListSession) run(sub *repository.Subscription) {
	defer close(s.done)
	defer close(s.snapshots)

	for event := range sub.Events() {
		s.mu.Lock()
		s.items = ApplyItemChange(s.items, event)
		snapshot := cloneItems(s.items)
		s.mu.Unlock()
		s.publish(snapshot)
	}

	if err := sub.Err(); err != nil {
		s.logger.Warn("⚠️ リストの購読が終了", zap.String("listId", s.filter.ListID), zap.Error(err))
	}
}

// publish 受信側が遅れている場合は古いスナップショットを捨てて最新だけを残す
func (s *ListSession) publish(snapshot []model.ToDoItem) {
	select {
	case s.snapshots <- snapshot:
		return
	default:
	}
	select {
	case <-s.snapshots:
	default:
	}
	s.snapshots <- snapshot
}

// Snapshots 変更ごとの最新リスト。購読が終わるとクローズされる
func (s *ListSession) Snapshots() <-chan []model.ToDoItem {
	return s.snapshots
}

// Items 現在のリストのコピー
func (s *ListSession) Items() []model.ToDoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Err 購読が異常終了した場合のエラー
func (s *ListSession) Err() error {
	s.mu.Lock()
	sub := s.sub
	s.mu.Unlock()
	if sub == nil {
		return nil
	}
	return sub.Err()
}

// Close 購読を解除し、配信ゴルーチンの終了を待つ
func (s *ListSession) Close() {
	s.mu.Lock()
	sub := s.sub
	s.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Close()
	<-s.done
	s.logger.Debug("🔕 リストの購読を解除", zap.String("listId", s.filter.ListID))
}

func cloneItems(items []model.ToDoItem) []model.ToDoItem {
	out := make([]model.ToDoItem, len(items))
	copy(out, items)
	return out
}
