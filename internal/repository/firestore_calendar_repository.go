package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

// FirestoreCalendarRepository リストごとの予定とリマインダー
type FirestoreCalendarRepository struct {
	client *firestore.Client
}

func NewFirestoreCalendarRepository(client *firestore.Client) repository.CalendarRepository {
	return &FirestoreCalendarRepository{client: client}
}

func (r *FirestoreCalendarRepository) events(listID string) *firestore.CollectionRef {
	return r.client.Collection(shoppingListsCollection).Doc(listID).Collection(calendarEventsCollection)
}

func (r *FirestoreCalendarRepository) reminders(listID string) *firestore.CollectionRef {
	return r.client.Collection(shoppingListsCollection).Doc(listID).Collection(remindersCollection)
}

func (r *FirestoreCalendarRepository) CreateEvent(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error) {
	ref, _, err := r.events(event.ListID).Add(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("予定の保存に失敗: %w", err)
	}
	created := *event
	created.ID = ref.ID
	return &created, nil
}

func (r *FirestoreCalendarRepository) ListEvents(ctx context.Context, listID string) ([]model.CalendarEvent, error) {
	docs, err := r.events(listID).OrderBy("date", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("予定一覧の取得に失敗: %w", err)
	}
	events := make([]model.CalendarEvent, 0, len(docs))
	for _, doc := range docs {
		var ev model.CalendarEvent
		if err := doc.DataTo(&ev); err != nil {
			return nil, fmt.Errorf("予定データの変換に失敗: %w", err)
		}
		ev.ID = doc.Ref.ID
		events = append(events, ev)
	}
	return events, nil
}

func (r *FirestoreCalendarRepository) DeleteEvent(ctx context.Context, listID, eventID string) error {
	if _, err := r.events(listID).Doc(eventID).Delete(ctx, firestore.Exists); err != nil {
		return wrapNotFound(err, model.ErrNotFound, "予定 %s の削除に失敗", eventID)
	}
	return nil
}

func (r *FirestoreCalendarRepository) CreateReminder(ctx context.Context, reminder *model.Reminder) (*model.Reminder, error) {
	ref, _, err := r.reminders(reminder.ListID).Add(ctx, reminder)
	if err != nil {
		return nil, fmt.Errorf("リマインダーの保存に失敗: %w", err)
	}
	created := *reminder
	created.ID = ref.ID
	return &created, nil
}

func (r *FirestoreCalendarRepository) ListReminders(ctx context.Context, listID string) ([]model.Reminder, error) {
	docs, err := r.reminders(listID).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("リマインダー一覧の取得に失敗: %w", err)
	}
	reminders := make([]model.Reminder, 0, len(docs))
	for _, doc := range docs {
		var rem model.Reminder
		if err := doc.DataTo(&rem); err != nil {
			return nil, fmt.Errorf("リマインダーデータの変換に失敗: %w", err)
		}
		rem.ID = doc.Ref.ID
		reminders = append(reminders, rem)
	}
	return reminders, nil
}

func (r *FirestoreCalendarRepository) DeactivateReminder(ctx context.Context, listID, reminderID string) error {
	_, err := r.reminders(listID).Doc(reminderID).Update(ctx, []firestore.Update{
		{Path: "active", Value: false},
	})
	if err != nil {
		return wrapNotFound(err, model.ErrNotFound, "リマインダー %s の無効化に失敗", reminderID)
	}
	return nil
}
