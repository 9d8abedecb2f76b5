package repository

import (
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

const (
	usersCollection          = "users"
	shoppingListsCollection  = "shoppingLists"
	itemsCollection          = "items"
	calendarEventsCollection = "calendarEvents"
	remindersCollection      = "reminders"
)

// isNotFound Firestore の NotFound エラーか判定
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// wrapNotFound NotFound を指定のドメインエラーに変換する
func wrapNotFound(err error, notFound error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if isNotFound(err) {
		return fmt.Errorf("%s: %w", msg, notFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func itemFromDoc(doc *firestore.DocumentSnapshot) (model.ToDoItem, error) {
	var item model.ToDoItem
	if err := doc.DataTo(&item); err != nil {
		return model.ToDoItem{}, fmt.Errorf("商品データの変換に失敗: %w", err)
	}
	item.ID = doc.Ref.ID
	return item, nil
}

func changeKind(kind firestore.DocumentChangeKind) (model.ChangeKind, bool) {
	switch kind {
	case firestore.DocumentAdded:
		return model.ChangeAdded, true
	case firestore.DocumentModified:
		return model.ChangeModified, true
	case firestore.DocumentRemoved:
		return model.ChangeRemoved, true
	}
	return "", false
}
