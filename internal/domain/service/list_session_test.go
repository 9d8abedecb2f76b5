package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

// fakeItemSubscriber テストから送ったイベントをそのまま流す
type fakeItemSubscriber struct {
	feed    chan model.ItemChangeEvent
	failErr error
	filter  model.ItemFilter
}

func (f *fakeItemSubscriber) SubscribeItems(ctx context.Context, filter model.ItemFilter) (*repository.Subscription, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.filter = filter
	subCtx, cancel := context.WithCancel(ctx)
	sub := repository.NewSubscription(cancel)
	go func() {
		for {
			select {
			case <-subCtx.Done():
				sub.Finish(nil)
				return
			case ev, ok := <-f.feed:
				if !ok {
					sub.Finish(errors.New("feed closed"))
					return
				}
				if !sub.Publish(subCtx, ev) {
					sub.Finish(nil)
					return
				}
			}
		}
	}()
	return sub, nil
}

func waitSnapshot(t *testing.T, s *ListSession) []model.ToDoItem {
	t.Helper()
	select {
	case snap, ok := <-s.Snapshots():
		require.True(t, ok, "snapshots closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestListSession_AppliesEventsAndUnsubscribes(t *testing.T) {
	defer goleak.VerifyNone(t)

	subscriber := &fakeItemSubscriber{feed: make(chan model.ItemChangeEvent)}
	session := NewListSession(subscriber, model.ItemFilter{ListID: "list-1"}, nil)
	require.NoError(t, session.Start(context.Background()))
	assert.Equal(t, "list-1", subscriber.filter.ListID)

	milk := model.ToDoItem{ID: "1", ListID: "list-1", Name: "Llet"}
	subscriber.feed <- model.ItemChangeEvent{Kind: model.ChangeAdded, Item: milk}
	if diff := cmp.Diff([]model.ToDoItem{milk}, waitSnapshot(t, session)); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	bought := milk
	bought.Purchased = true
	subscriber.feed <- model.ItemChangeEvent{Kind: model.ChangeModified, Item: bought}
	if diff := cmp.Diff([]model.ToDoItem{bought}, waitSnapshot(t, session)); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	subscriber.feed <- model.ItemChangeEvent{Kind: model.ChangeRemoved, Item: model.ToDoItem{ID: "1"}}
	assert.Empty(t, waitSnapshot(t, session))
	assert.Empty(t, session.Items())

	session.Close()
	_, open := <-session.Snapshots()
	assert.False(t, open)
	assert.NoError(t, session.Err())
}

func TestListSession_StopsWhenParentContextEnds(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	session := NewListSession(&fakeItemSubscriber{feed: make(chan model.ItemChangeEvent)}, model.ItemFilter{ListID: "l"}, nil)
	require.NoError(t, session.Start(ctx))

	cancel()
	select {
	case _, open := <-session.Snapshots():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	session.Close()
}

func TestListSession_ReportsSubscriptionError(t *testing.T) {
	defer goleak.VerifyNone(t)

	feed := make(chan model.ItemChangeEvent)
	session := NewListSession(&fakeItemSubscriber{feed: feed}, model.ItemFilter{ListID: "l"}, nil)
	require.NoError(t, session.Start(context.Background()))

	close(feed)
	_, open := <-session.Snapshots()
	assert.False(t, open)
	assert.EqualError(t, session.Err(), "feed closed")
	session.Close()
}

func TestListSession_StartErrors(t *testing.T) {
	failing := NewListSession(&fakeItemSubscriber{failErr: errors.New("permission denied")}, model.ItemFilter{ListID: "l"}, nil)
	assert.Error(t, failing.Start(context.Background()))
	failing.Close()

	defer goleak.VerifyNone(t)
	session := NewListSession(&fakeItemSubscriber{feed: make(chan model.ItemChangeEvent)}, model.ItemFilter{ListID: "l"}, nil)
	require.NoError(t, session.Start(context.Background()))
	assert.ErrorIs(t, session.Start(context.Background()), ErrSessionStarted)
	session.Close()
}
