package service

import "github.com/paulare17/Sprint8-sub000/internal/domain/model"

// ApplyItemChange 変更イベントを適用した新しいスライスを返す（引数は変更しない）
// added/modified は同じIDがあれば置き換え、なければ末尾に追加。removed は削除
func ApplyItemChange(items []model.ToDoItem, event model.ItemChangeEvent) []model.ToDoItem {
	next := make([]model.ToDoItem, 0, len(items)+1)

	switch event.Kind {
	case model.ChangeRemoved:
		for _, item := range items {
			if item.ID != event.Item.ID {
				next = append(next, item)
			}
		}
		return next

	case model.ChangeAdded, model.ChangeModified:
		replaced := false
		for _, item := range items {
			if item.ID == event.Item.ID {
				next = append(next, event.Item)
				replaced = true
				continue
			}
			next = append(next, item)
		}
		if !replaced {
			next = append(next, event.Item)
		}
		return next
	}

	return append(next, items...)
}
