package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
	"github.com/paulare17/Sprint8-sub000/internal/domain/service"
)

// defaultUpcomingWindow from/to が省略された場合の期間
const defaultUpcomingWindow = 30 * 24 * time.Hour

type CalendarUsecase interface {
	CreateEvent(ctx context.Context, userID, listID string, req *model.CreateCalendarEventRequest) (*model.CalendarEvent, error)
	ListEvents(ctx context.Context, userID, listID string) ([]model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, userID, listID, eventID string) error

	CreateReminder(ctx context.Context, userID, listID string, req *model.CreateReminderRequest) (*model.Reminder, error)
	ListReminders(ctx context.Context, userID, listID string) ([]model.Reminder, error)
	DeactivateReminder(ctx context.Context, userID, listID, reminderID string) error

	// Upcoming は期間内の予定とリマインダーから展開した予定を日付順で返す
	Upcoming(ctx context.Context, userID, listID string, from, to time.Time) ([]model.CalendarEvent, error)
}

type calendarUsecaseImpl struct {
	lists    repository.ShoppingListsRepository
	calendar repository.CalendarRepository
}

func NewCalendarUsecase(lists repository.ShoppingListsRepository, calendar repository.CalendarRepository) CalendarUsecase {
	return &calendarUsecaseImpl{lists: lists, calendar: calendar}
}

func (u *calendarUsecaseImpl) CreateEvent(ctx context.Context, userID, listID string, req *model.CreateCalendarEventRequest) (*model.CalendarEvent, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("タイトルは必須です: %w", model.ErrInvalidInput)
	}
	event := &model.CalendarEvent{
		ListID:   listID,
		UserID:   userID,
		Title:    title,
		Date:     req.Date,
		ItemName: req.ItemName,
	}
	created, err := u.calendar.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("予定の作成に失敗: %w", err)
	}
	return created, nil
}

func (u *calendarUsecaseImpl) ListEvents(ctx context.Context, userID, listID string) ([]model.CalendarEvent, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	return u.calendar.ListEvents(ctx, listID)
}

func (u *calendarUsecaseImpl) DeleteEvent(ctx context.Context, userID, listID, eventID string) error {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return err
	}
	return u.calendar.DeleteEvent(ctx, listID, eventID)
}

func (u *calendarUsecaseImpl) CreateReminder(ctx context.Context, userID, listID string, req *model.CreateReminderRequest) (*model.Reminder, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	switch req.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyBiweekly, model.FrequencyMonthly:
	default:
		return nil, fmt.Errorf("不明な周期 %q: %w", req.Frequency, model.ErrInvalidInput)
	}
	reminder := &model.Reminder{
		ListID:    listID,
		UserID:    userID,
		ItemName:  strings.TrimSpace(req.ItemName),
		Frequency: req.Frequency,
		StartDate: req.StartDate,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	created, err := u.calendar.CreateReminder(ctx, reminder)
	if err != nil {
		return nil, fmt.Errorf("リマインダーの作成に失敗: %w", err)
	}
	return created, nil
}

func (u *calendarUsecaseImpl) ListReminders(ctx context.Context, userID, listID string) ([]model.Reminder, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	return u.calendar.ListReminders(ctx, listID)
}

func (u *calendarUsecaseImpl) DeactivateReminder(ctx context.Context, userID, listID, reminderID string) error {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return err
	}
	return u.calendar.DeactivateReminder(ctx, listID, reminderID)
}

func (u *calendarUsecaseImpl) Upcoming(ctx context.Context, userID, listID string, from, to time.Time) ([]model.CalendarEvent, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = time.Now().UTC()
	}
	if to.IsZero() {
		to = from.Add(defaultUpcomingWindow)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("to は from より後である必要があります: %w", model.ErrInvalidInput)
	}

	stored, err := u.calendar.ListEvents(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("予定の取得に失敗: %w", err)
	}
	reminders, err := u.calendar.ListReminders(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("リマインダーの取得に失敗: %w", err)
	}

	result := make([]model.CalendarEvent, 0, len(stored))
	for _, ev := range stored {
		if ev.Date.Before(from) || ev.Date.After(to) {
			continue
		}
		result = append(result, ev)
	}
	result = append(result, service.ExpandReminders(reminders, from, to)...)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}
