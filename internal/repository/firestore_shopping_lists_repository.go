package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

// FirestoreShoppingListsRepository 買い物リストと商品を Firestore に保存し、変更を購読する
type FirestoreShoppingListsRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

func NewFirestoreShoppingListsRepository(client *firestore.Client, logger *zap.Logger) *FirestoreShoppingListsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirestoreShoppingListsRepository{
		client: client,
		logger: logger,
	}
}

var (
	_ repository.ShoppingListsRepository = (*FirestoreShoppingListsRepository)(nil)
	_ repository.ItemSubscriber          = (*FirestoreShoppingListsRepository)(nil)
)

func (r *FirestoreShoppingListsRepository) lists() *firestore.CollectionRef {
	return r.client.Collection(shoppingListsCollection)
}

func (r *FirestoreShoppingListsRepository) items(listID string) *firestore.CollectionRef {
	return r.lists().Doc(listID).Collection(itemsCollection)
}

func (r *FirestoreShoppingListsRepository) CreateList(ctx context.Context, list *model.ShoppingList) (*model.ShoppingList, error) {
	ref, _, err := r.lists().Add(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("リストの保存に失敗: %w", err)
	}
	created := *list
	created.ID = ref.ID
	return &created, nil
}

func (r *FirestoreShoppingListsRepository) GetList(ctx context.Context, listID string) (*model.ShoppingList, error) {
	doc, err := r.lists().Doc(listID).Get(ctx)
	if err != nil {
		return nil, wrapNotFound(err, model.ErrListNotFound, "リスト %s の取得に失敗", listID)
	}
	var list model.ShoppingList
	if err := doc.DataTo(&list); err != nil {
		return nil, fmt.Errorf("リストデータの変換に失敗: %w", err)
	}
	list.ID = doc.Ref.ID
	return &list, nil
}

func (r *FirestoreShoppingListsRepository) AddMember(ctx context.Context, listID, userID string) error {
	_, err := r.lists().Doc(listID).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(userID)},
	})
	if err != nil {
		return wrapNotFound(err, model.ErrListNotFound, "リスト %s へのメンバー追加に失敗", listID)
	}
	return nil
}

func (r *FirestoreShoppingListsRepository) ListByMember(ctx context.Context, userID string) ([]model.ShoppingList, error) {
	docs, err := r.lists().Where("members", "array-contains", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("リスト一覧の取得に失敗: %w", err)
	}
	lists := make([]model.ShoppingList, 0, len(docs))
	for _, doc := range docs {
		var list model.ShoppingList
		if err := doc.DataTo(&list); err != nil {
			return nil, fmt.Errorf("リストデータの変換に失敗: %w", err)
		}
		list.ID = doc.Ref.ID
		lists = append(lists, list)
	}
	return lists, nil
}

func (r *FirestoreShoppingListsRepository) AddItem(ctx context.Context, item *model.ToDoItem) (*model.ToDoItem, error) {
	ref, _, err := r.items(item.ListID).Add(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("商品の保存に失敗: %w", err)
	}
	created := *item
	created.ID = ref.ID
	return &created, nil
}

func (r *FirestoreShoppingListsRepository) SetItemPurchased(ctx context.Context, listID, itemID string, purchased bool, by string, at time.Time) (*model.ToDoItem, error) {
	updates := []firestore.Update{{Path: "purchased", Value: purchased}}
	if purchased {
		updates = append(updates,
			firestore.Update{Path: "purchasedBy", Value: by},
			firestore.Update{Path: "purchasedAt", Value: at},
		)
	} else {
		updates = append(updates,
			firestore.Update{Path: "purchasedBy", Value: firestore.Delete},
			firestore.Update{Path: "purchasedAt", Value: firestore.Delete},
		)
	}

	ref := r.items(listID).Doc(itemID)
	if _, err := ref.Update(ctx, updates); err != nil {
		return nil, wrapNotFound(err, model.ErrNotFound, "商品 %s の更新に失敗", itemID)
	}
	doc, err := ref.Get(ctx)
	if err != nil {
		return nil, wrapNotFound(err, model.ErrNotFound, "商品 %s の取得に失敗", itemID)
	}
	item, err := itemFromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *FirestoreShoppingListsRepository) DeleteItem(ctx context.Context, listID, itemID string) error {
	if _, err := r.items(listID).Doc(itemID).Delete(ctx, firestore.Exists); err != nil {
		return wrapNotFound(err, model.ErrNotFound, "商品 %s の削除に失敗", itemID)
	}
	return nil
}

func (r *FirestoreShoppingListsRepository) ListItems(ctx context.Context, listID string) ([]model.ToDoItem, error) {
	docs, err := r.items(listID).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("商品一覧の取得に失敗: %w", err)
	}
	items := make([]model.ToDoItem, 0, len(docs))
	for _, doc := range docs {
		item, err := itemFromDoc(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// SubscribeItems クエリのスナップショットリスナーを変更イベントのストリームに変換する
// 最初のスナップショットでは既存の商品がすべて added として届く
func (r *FirestoreShoppingListsRepository) SubscribeItems(ctx context.Context, filter model.ItemFilter) (*repository.Subscription, error) {
	if filter.ListID == "" {
		return nil, fmt.Errorf("listId が指定されていません: %w", model.ErrInvalidInput)
	}

	query := r.items(filter.ListID).Query
	if filter.OnlyPending {
		query = query.Where("purchased", "==", false)
	}
	if filter.SupermarketID != "" {
		query = query.Where("supermarketId", "==", filter.SupermarketID)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := repository.NewSubscription(cancel)
	it := query.Snapshots(subCtx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if subCtx.Err() != nil {
					sub.Finish(nil)
				} else {
					sub.Finish(fmt.Errorf("商品の購読に失敗: %w", err))
				}
				return
			}
			for _, change := range snap.Changes {
				kind, ok := changeKind(change.Kind)
				if !ok {
					continue
				}
				item, err := itemFromDoc(change.Doc)
				if err != nil {
					r.logger.Warn("⚠️ 変更イベントの変換に失敗", zap.String("listId", filter.ListID), zap.Error(err))
					continue
				}
				if !sub.Publish(subCtx, model.ItemChangeEvent{Kind: kind, Item: item}) {
					sub.Finish(nil)
					return
				}
			}
		}
	}()

	return sub, nil
}
