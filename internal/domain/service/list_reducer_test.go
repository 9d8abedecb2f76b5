package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

func TestApplyItemChange(t *testing.T) {
	milk := model.ToDoItem{ID: "1", Name: "Llet", Quantity: 2}
	bread := model.ToDoItem{ID: "2", Name: "Pa", Quantity: 1}
	boughtMilk := model.ToDoItem{ID: "1", Name: "Llet", Quantity: 2, Purchased: true, PurchasedBy: "u2"}

	tests := []struct {
		name  string
		items []model.ToDoItem
		event model.ItemChangeEvent
		want  []model.ToDoItem
	}{
		{
			name:  "added appends",
			items: []model.ToDoItem{milk},
			event: model.ItemChangeEvent{Kind: model.ChangeAdded, Item: bread},
			want:  []model.ToDoItem{milk, bread},
		},
		{
			name:  "added with existing id replaces",
			items: []model.ToDoItem{milk, bread},
			event: model.ItemChangeEvent{Kind: model.ChangeAdded, Item: boughtMilk},
			want:  []model.ToDoItem{boughtMilk, bread},
		},
		{
			name:  "modified replaces in place",
			items: []model.ToDoItem{milk, bread},
			event: model.ItemChangeEvent{Kind: model.ChangeModified, Item: boughtMilk},
			want:  []model.ToDoItem{boughtMilk, bread},
		},
		{
			name:  "modified unknown appends",
			items: []model.ToDoItem{bread},
			event: model.ItemChangeEvent{Kind: model.ChangeModified, Item: milk},
			want:  []model.ToDoItem{bread, milk},
		},
		{
			name:  "removed drops item",
			items: []model.ToDoItem{milk, bread},
			event: model.ItemChangeEvent{Kind: model.ChangeRemoved, Item: model.ToDoItem{ID: "1"}},
			want:  []model.ToDoItem{bread},
		},
		{
			name:  "removed unknown is no-op",
			items: []model.ToDoItem{bread},
			event: model.ItemChangeEvent{Kind: model.ChangeRemoved, Item: model.ToDoItem{ID: "9"}},
			want:  []model.ToDoItem{bread},
		},
		{
			name:  "unknown kind keeps items",
			items: []model.ToDoItem{bread},
			event: model.ItemChangeEvent{Kind: "renamed", Item: milk},
			want:  []model.ToDoItem{bread},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]model.ToDoItem(nil), tt.items...)
			got := ApplyItemChange(tt.items, tt.event)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ApplyItemChange() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(before, tt.items); diff != "" {
				t.Errorf("input was mutated (-before +after):\n%s", diff)
			}
		})
	}
}
