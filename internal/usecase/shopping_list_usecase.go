package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
	"github.com/paulare17/Sprint8-sub000/internal/domain/service"
)

type ShoppingListUsecase interface {
	CreateList(ctx context.Context, userID string, req *model.CreateShoppingListRequest) (*model.ShoppingList, error)
	GetList(ctx context.Context, userID, listID string) (*model.ShoppingList, error)
	JoinList(ctx context.Context, userID, listID string) (*model.ShoppingList, error)
	MyLists(ctx context.Context, userID string) ([]model.ShoppingList, error)

	AddItem(ctx context.Context, userID, listID string, req *model.AddItemRequest) (*model.ToDoItem, error)
	SetPurchased(ctx context.Context, userID, listID, itemID string, purchased bool) (*model.ToDoItem, error)
	DeleteItem(ctx context.Context, userID, listID, itemID string) error
	ListItems(ctx context.Context, userID, listID string) ([]model.ToDoItem, error)

	Analytics(ctx context.Context, userID, listID string) (*model.ListAnalytics, error)
	// OpenSession はリストの変更購読を開始する。呼び出し側が Close する
	OpenSession(ctx context.Context, userID, listID string) (*service.ListSession, error)
}

type shoppingListUsecaseImpl struct {
	lists      repository.ShoppingListsRepository
	subscriber repository.ItemSubscriber
	logger     *zap.Logger
	now        func() time.Time
}

func NewShoppingListUsecase(lists repository.ShoppingListsRepository, subscriber repository.ItemSubscriber, logger *zap.Logger) ShoppingListUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shoppingListUsecaseImpl{
		lists:      lists,
		subscriber: subscriber,
		logger:     logger,
		now:        time.Now,
	}
}

// requireMember リストを取得し、ユーザーがメンバーであることを確認する
func requireMember(ctx context.Context, lists repository.ShoppingListsRepository, userID, listID string) (*model.ShoppingList, error) {
	list, err := lists.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.HasMember(userID) {
		return nil, model.ErrNotListMember
	}
	return list, nil
}

func (u *shoppingListUsecaseImpl) CreateList(ctx context.Context, userID string, req *model.CreateShoppingListRequest) (*model.ShoppingList, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("リスト名は必須です: %w", model.ErrInvalidInput)
	}
	list := &model.ShoppingList{
		Name:       name,
		PostalCode: req.PostalCode,
		OwnerID:    userID,
		Members:    []string{userID},
		CreatedAt:  u.now().UTC(),
	}
	created, err := u.lists.CreateList(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("リストの作成に失敗: %w", err)
	}
	u.logger.Info("🧾 リストを作成", zap.String("listId", created.ID), zap.String("owner", userID))
	return created, nil
}

func (u *shoppingListUsecaseImpl) GetList(ctx context.Context, userID, listID string) (*model.ShoppingList, error) {
	return requireMember(ctx, u.lists, userID, listID)
}

func (u *shoppingListUsecaseImpl) JoinList(ctx context.Context, userID, listID string) (*model.ShoppingList, error) {
	list, err := u.lists.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.HasMember(userID) {
		return list, nil
	}
	if err := u.lists.AddMember(ctx, listID, userID); err != nil {
		return nil, fmt.Errorf("リストへの参加に失敗: %w", err)
	}
	list.Members = append(list.Members, userID)
	u.logger.Info("🤝 リストに参加", zap.String("listId", listID), zap.String("userId", userID))
	return list, nil
}

func (u *shoppingListUsecaseImpl) MyLists(ctx context.Context, userID string) ([]model.ShoppingList, error) {
	lists, err := u.lists.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("リスト一覧の取得に失敗: %w", err)
	}
	return lists, nil
}

func (u *shoppingListUsecaseImpl) AddItem(ctx context.Context, userID, listID string, req *model.AddItemRequest) (*model.ToDoItem, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("商品名は必須です: %w", model.ErrInvalidInput)
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	item := &model.ToDoItem{
		ListID:        listID,
		Name:          name,
		Quantity:      quantity,
		SupermarketID: req.SupermarketID,
		AddedBy:       userID,
		CreatedAt:     u.now().UTC(),
	}
	created, err := u.lists.AddItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("商品の追加に失敗: %w", err)
	}
	return created, nil
}

func (u *shoppingListUsecaseImpl) SetPurchased(ctx context.Context, userID, listID, itemID string, purchased bool) (*model.ToDoItem, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	item, err := u.lists.SetItemPurchased(ctx, listID, itemID, purchased, userID, u.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("購入状態の更新に失敗: %w", err)
	}
	return item, nil
}

func (u *shoppingListUsecaseImpl) DeleteItem(ctx context.Context, userID, listID, itemID string) error {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return err
	}
	if err := u.lists.DeleteItem(ctx, listID, itemID); err != nil {
		return fmt.Errorf("商品の削除に失敗: %w", err)
	}
	return nil
}

func (u *shoppingListUsecaseImpl) ListItems(ctx context.Context, userID, listID string) ([]model.ToDoItem, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	items, err := u.lists.ListItems(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("商品一覧の取得に失敗: %w", err)
	}
	return items, nil
}

func (u *shoppingListUsecaseImpl) Analytics(ctx context.Context, userID, listID string) (*model.ListAnalytics, error) {
	items, err := u.ListItems(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	analytics := service.ComputeListAnalytics(items)
	return &analytics, nil
}

func (u *shoppingListUsecaseImpl) OpenSession(ctx context.Context, userID, listID string) (*service.ListSession, error) {
	if _, err := requireMember(ctx, u.lists, userID, listID); err != nil {
		return nil, err
	}
	session := service.NewListSession(u.subscriber, model.ItemFilter{ListID: listID}, u.logger)
	if err := session.Start(ctx); err != nil {
		return nil, err
	}
	return session, nil
}
