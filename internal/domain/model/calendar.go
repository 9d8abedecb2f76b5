package model

import "time"

// CalendarEvent カレンダー上の購入予定
type CalendarEvent struct {
	ID        string    `json:"id" firestore:"-"`
	ListID    string    `json:"listId" firestore:"listId"`
	UserID    string    `json:"userId" firestore:"userId"`
	Title     string    `json:"title" firestore:"title"`
	Date      time.Time `json:"date" firestore:"date"`
	ItemName  string    `json:"itemName,omitempty" firestore:"itemName,omitempty"`
	Recurring bool      `json:"recurring" firestore:"-"` // リマインダーから展開されたもの
}

type CreateCalendarEventRequest struct {
	Title    string    `json:"title" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	ItemName string    `json:"itemName"`
}

// Frequency 定期購入リマインダーの周期
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Reminder 定期購入のリマインダー
type Reminder struct {
	ID        string    `json:"id" firestore:"-"`
	ListID    string    `json:"listId" firestore:"listId"`
	UserID    string    `json:"userId" firestore:"userId"`
	ItemName  string    `json:"itemName" firestore:"itemName"`
	Frequency Frequency `json:"frequency" firestore:"frequency"`
	StartDate time.Time `json:"startDate" firestore:"startDate"`
	Active    bool      `json:"active" firestore:"active"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

type CreateReminderRequest struct {
	ItemName  string    `json:"itemName" binding:"required"`
	Frequency Frequency `json:"frequency" binding:"required,oneof=daily weekly biweekly monthly"`
	StartDate time.Time `json:"startDate" binding:"required"`
}
