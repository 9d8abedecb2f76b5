package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

func TestShoppingListUsecase_Flow(t *testing.T) {
	ctx := context.Background()
	uc := NewShoppingListUsecase(newMemoryLists(), closedSubscriber{}, nil)

	list, err := uc.CreateList(ctx, "anna", &model.CreateShoppingListRequest{Name: " Setmana ", PostalCode: "08001"})
	require.NoError(t, err)
	assert.Equal(t, "Setmana", list.Name)
	assert.Equal(t, "anna", list.OwnerID)
	assert.Equal(t, []string{"anna"}, list.Members)

	_, err = uc.AddItem(ctx, "marc", list.ID, &model.AddItemRequest{Name: "Llet"})
	assert.ErrorIs(t, err, model.ErrNotListMember)

	joined, err := uc.JoinList(ctx, "marc", list.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"anna", "marc"}, joined.Members)

	again, err := uc.JoinList(ctx, "marc", list.ID)
	require.NoError(t, err)
	assert.Len(t, again.Members, 2)

	milk, err := uc.AddItem(ctx, "marc", list.ID, &model.AddItemRequest{Name: "Llet"})
	require.NoError(t, err)
	assert.Equal(t, 1, milk.Quantity)
	assert.Equal(t, "marc", milk.AddedBy)

	_, err = uc.AddItem(ctx, "anna", list.ID, &model.AddItemRequest{Name: "Pa", Quantity: 2, SupermarketID: "not-validated"})
	require.NoError(t, err)

	bought, err := uc.SetPurchased(ctx, "anna", list.ID, milk.ID, true)
	require.NoError(t, err)
	assert.True(t, bought.Purchased)
	assert.Equal(t, "anna", bought.PurchasedBy)
	require.NotNil(t, bought.PurchasedAt)

	analytics, err := uc.Analytics(ctx, "anna", list.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.TotalItems)
	assert.Equal(t, 1, analytics.PurchasedItems)
	assert.Equal(t, 1, analytics.PendingItems)

	require.NoError(t, uc.DeleteItem(ctx, "anna", list.ID, milk.ID))
	items, err := uc.ListItems(ctx, "marc", list.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pa", items[0].Name)

	mine, err := uc.MyLists(ctx, "marc")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestShoppingListUsecase_Errors(t *testing.T) {
	ctx := context.Background()
	uc := NewShoppingListUsecase(newMemoryLists(), closedSubscriber{}, nil)

	_, err := uc.GetList(ctx, "anna", "missing")
	assert.ErrorIs(t, err, model.ErrListNotFound)

	_, err = uc.CreateList(ctx, "anna", &model.CreateShoppingListRequest{Name: "  ", PostalCode: "08001"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	list, err := uc.CreateList(ctx, "anna", &model.CreateShoppingListRequest{Name: "Casa", PostalCode: "08001"})
	require.NoError(t, err)

	_, err = uc.OpenSession(ctx, "intrus", list.ID)
	assert.ErrorIs(t, err, model.ErrNotListMember)

	session, err := uc.OpenSession(ctx, "anna", list.ID)
	require.NoError(t, err)
	session.Close()
}

func TestCalendarUsecase_Upcoming(t *testing.T) {
	ctx := context.Background()
	lists := newMemoryLists()
	list, err := lists.CreateList(ctx, &model.ShoppingList{Name: "Casa", Members: []string{"anna"}})
	require.NoError(t, err)

	uc := NewCalendarUsecase(lists, &memoryCalendar{})
	start := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	_, err = uc.CreateEvent(ctx, "anna", list.ID, &model.CreateCalendarEventRequest{Title: "Compra gran", Date: start.AddDate(0, 0, 3)})
	require.NoError(t, err)
	_, err = uc.CreateEvent(ctx, "anna", list.ID, &model.CreateCalendarEventRequest{Title: "Fora de rang", Date: start.AddDate(0, 2, 0)})
	require.NoError(t, err)

	reminder, err := uc.CreateReminder(ctx, "anna", list.ID, &model.CreateReminderRequest{
		ItemName: "Llet", Frequency: model.FrequencyWeekly, StartDate: start,
	})
	require.NoError(t, err)
	assert.True(t, reminder.Active)

	_, err = uc.CreateReminder(ctx, "anna", list.ID, &model.CreateReminderRequest{ItemName: "x", Frequency: "yearly", StartDate: start})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	upcoming, err := uc.Upcoming(ctx, "anna", list.ID, start, start.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, upcoming, 4)
	assert.Equal(t, "Llet", upcoming[0].Title)
	assert.Equal(t, "Compra gran", upcoming[1].Title)
	assert.False(t, upcoming[1].Recurring)
	assert.True(t, upcoming[2].Recurring)

	require.NoError(t, uc.DeactivateReminder(ctx, "anna", list.ID, reminder.ID))
	upcoming, err = uc.Upcoming(ctx, "anna", list.ID, start, start.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)

	_, err = uc.Upcoming(ctx, "marc", list.ID, start, start)
	assert.ErrorIs(t, err, model.ErrNotListMember)
}
