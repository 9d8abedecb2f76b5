package repository

import (
	"context"
	"time"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

type ShoppingListsRepository interface {
	CreateList(ctx context.Context, list *model.ShoppingList) (*model.ShoppingList, error)
	GetList(ctx context.Context, listID string) (*model.ShoppingList, error)
	AddMember(ctx context.Context, listID, userID string) error
	ListByMember(ctx context.Context, userID string) ([]model.ShoppingList, error)

	AddItem(ctx context.Context, item *model.ToDoItem) (*model.ToDoItem, error)
	SetItemPurchased(ctx context.Context, listID, itemID string, purchased bool, by string, at time.Time) (*model.ToDoItem, error)
	DeleteItem(ctx context.Context, listID, itemID string) error
	ListItems(ctx context.Context, listID string) ([]model.ToDoItem, error)
}

// ItemSubscriber リスト内商品の変更を購読する
type ItemSubscriber interface {
	SubscribeItems(ctx context.Context, filter model.ItemFilter) (*Subscription, error)
}

type UserProfilesRepository interface {
	Save(ctx context.Context, profile *model.UserProfile) error
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
}

type CalendarRepository interface {
	CreateEvent(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error)
	ListEvents(ctx context.Context, listID string) ([]model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, listID, eventID string) error

	CreateReminder(ctx context.Context, reminder *model.Reminder) (*model.Reminder, error)
	ListReminders(ctx context.Context, listID string) ([]model.Reminder, error)
	DeactivateReminder(ctx context.Context, listID, reminderID string) error
}
