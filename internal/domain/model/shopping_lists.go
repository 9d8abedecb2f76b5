package model

import "time"

// UserProfile 登録ユーザーのプロフィール（IDは認証プロバイダのUID）
type UserProfile struct {
	ID          string    `json:"id" firestore:"-"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	Email       string    `json:"email" firestore:"email"`
	PostalCode  string    `json:"postalCode" firestore:"postalCode"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

type RegisterUserRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PostalCode  string `json:"postalCode" binding:"required,postalcode"`
}

// ShoppingList 郵便番号に紐づく共有買い物リスト
type ShoppingList struct {
	ID         string    `json:"id" firestore:"-"`
	Name       string    `json:"name" firestore:"name"`
	PostalCode string    `json:"postalCode" firestore:"postalCode"`
	OwnerID    string    `json:"ownerId" firestore:"ownerId"`
	Members    []string  `json:"members" firestore:"members"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// HasMember ユーザーがリストのメンバーか判定
func (l *ShoppingList) HasMember(userID string) bool {
	for _, m := range l.Members {
		if m == userID {
			return true
		}
	}
	return false
}

type CreateShoppingListRequest struct {
	Name       string `json:"name" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required,postalcode"`
}

// ToDoItem リスト内の商品
type ToDoItem struct {
	ID            string     `json:"id" firestore:"-"`
	ListID        string     `json:"listId" firestore:"listId"`
	Name          string     `json:"name" firestore:"name"`
	Quantity      int        `json:"quantity" firestore:"quantity"`
	SupermarketID string     `json:"supermarketId,omitempty" firestore:"supermarketId,omitempty"`
	Purchased     bool       `json:"purchased" firestore:"purchased"`
	AddedBy       string     `json:"addedBy" firestore:"addedBy"`
	PurchasedBy   string     `json:"purchasedBy,omitempty" firestore:"purchasedBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" firestore:"createdAt"`
	PurchasedAt   *time.Time `json:"purchasedAt,omitempty" firestore:"purchasedAt,omitempty"`
}

type AddItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Quantity      int    `json:"quantity" binding:"omitempty,min=1"`
	SupermarketID string `json:"supermarketId"`
}

type UpdateItemRequest struct {
	Purchased *bool `json:"purchased" binding:"required"`
}

// ChangeKind リアルタイム変更の種類
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// ItemChangeEvent 購読中のリストで発生した商品の変更
type ItemChangeEvent struct {
	Kind ChangeKind `json:"kind"`
	Item ToDoItem   `json:"item"`
}

// ItemFilter 購読対象の絞り込み条件
type ItemFilter struct {
	ListID        string
	OnlyPending   bool
	SupermarketID string
}

// MemberStats メンバーごとの集計
type MemberStats struct {
	MemberID       string `json:"memberId"`
	ItemsAdded     int    `json:"itemsAdded"`
	ItemsPurchased int    `json:"itemsPurchased"`
}

// ListAnalytics GET /api/lists/:id/analytics のデータ
type ListAnalytics struct {
	TotalItems     int           `json:"totalItems"`
	PurchasedItems int           `json:"purchasedItems"`
	PendingItems   int           `json:"pendingItems"`
	Members        []MemberStats `json:"members"`
}
