package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

type memoryLists struct {
	mu    sync.Mutex
	lists map[string]*model.ShoppingList
	items map[string][]model.ToDoItem
}

func newMemoryLists() *memoryLists {
	return &memoryLists{lists: map[string]*model.ShoppingList{}, items: map[string][]model.ToDoItem{}}
}

func (m *memoryLists) CreateList(ctx context.Context, list *model.ShoppingList) (*model.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := *list
	l.ID = uuid.NewString()
	m.lists[l.ID] = &l
	out := l
	return &out, nil
}

func (m *memoryLists) GetList(ctx context.Context, listID string) (*model.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[listID]
	if !ok {
		return nil, model.ErrListNotFound
	}
	out := *l
	out.Members = append([]string(nil), l.Members...)
	return &out, nil
}

func (m *memoryLists) AddMember(ctx context.Context, listID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[listID]
	if !ok {
		return model.ErrListNotFound
	}
	l.Members = append(l.Members, userID)
	return nil
}

func (m *memoryLists) ListByMember(ctx context.Context, userID string) ([]model.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ShoppingList
	for _, l := range m.lists {
		if l.HasMember(userID) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memoryLists) AddItem(ctx context.Context, item *model.ToDoItem) (*model.ToDoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := *item
	it.ID = uuid.NewString()
	m.items[it.ListID] = append(m.items[it.ListID], it)
	return &it, nil
}

func (m *memoryLists) SetItemPurchased(ctx context.Context, listID, itemID string, purchased bool, by string, at time.Time) (*model.ToDoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items[listID] {
		if it.ID != itemID {
			continue
		}
		it.Purchased = purchased
		if purchased {
			it.PurchasedBy = by
			it.PurchasedAt = &at
		} else {
			it.PurchasedBy = ""
			it.PurchasedAt = nil
		}
		m.items[listID][i] = it
		return &it, nil
	}
	return nil, fmt.Errorf("item %s: %w", itemID, model.ErrNotFound)
}

func (m *memoryLists) DeleteItem(ctx context.Context, listID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.items[listID]
	for i, it := range items {
		if it.ID == itemID {
			m.items[listID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %s: %w", itemID, model.ErrNotFound)
}

func (m *memoryLists) ListItems(ctx context.Context, listID string) ([]model.ToDoItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ToDoItem(nil), m.items[listID]...), nil
}

// closedSubscriber 購読するとすぐに終了するストリームを返す
type closedSubscriber struct{}

func (closedSubscriber) SubscribeItems(ctx context.Context, filter model.ItemFilter) (*repository.Subscription, error) {
	_, cancel := context.WithCancel(ctx)
	sub := repository.NewSubscription(cancel)
	sub.Finish(nil)
	return sub, nil
}

type memoryCalendar struct {
	mu        sync.Mutex
	events    []model.CalendarEvent
	reminders []model.Reminder
}

func (m *memoryCalendar) CreateEvent(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev := *event
	ev.ID = uuid.NewString()
	m.events = append(m.events, ev)
	return &ev, nil
}

func (m *memoryCalendar) ListEvents(ctx context.Context, listID string) ([]model.CalendarEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CalendarEvent
	for _, ev := range m.events {
		if ev.ListID == listID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memoryCalendar) DeleteEvent(ctx context.Context, listID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, ev := range m.events {
		if ev.ID == eventID && ev.ListID == listID {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *memoryCalendar) CreateReminder(ctx context.Context, reminder *model.Reminder) (*model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := *reminder
	r.ID = uuid.NewString()
	m.reminders = append(m.reminders, r)
	return &r, nil
}

func (m *memoryCalendar) ListReminders(ctx context.Context, listID string) ([]model.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Reminder
	for _, r := range m.reminders {
		if r.ListID == listID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryCalendar) DeactivateReminder(ctx context.Context, listID, reminderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.reminders {
		if r.ID == reminderID && r.ListID == listID {
			m.reminders[i].Active = false
			return nil
		}
	}
	return model.ErrNotFound
}
