package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/usecase"
)

// sseHeartbeatInterval 接続維持のための ping 間隔
const sseHeartbeatInterval = 25 * time.Second

// ShoppingListsHandler 買い物リストと商品に関するHTTPハンドラー
type ShoppingListsHandler struct {
	usecase   usecase.ShoppingListUsecase
	logger    *zap.Logger
	heartbeat time.Duration
}

func NewShoppingListsHandler(u usecase.ShoppingListUsecase, logger *zap.Logger) *ShoppingListsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingListsHandler{
		usecase:   u,
		logger:    logger,
		heartbeat: sseHeartbeatInterval,
	}
}

// CreateList POST /api/lists
func (h *ShoppingListsHandler) CreateList(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req model.CreateShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.usecase.CreateList(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": list})
}

// MyLists GET /api/lists - 自分がメンバーのリスト一覧
func (h *ShoppingListsHandler) MyLists(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	lists, err := h.usecase.MyLists(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": len(lists), "data": nonNil(lists)})
}

// GetList GET /api/lists/:id
func (h *ShoppingListsHandler) GetList(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.usecase.GetList(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

// JoinList POST /api/lists/:id/join - 共有リストに参加
func (h *ShoppingListsHandler) JoinList(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.usecase.JoinList(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
}

// ListItems GET /api/lists/:id/items
func (h *ShoppingListsHandler) ListItems(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.usecase.ListItems(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": len(items), "data": nonNil(items)})
}

// AddItem POST /api/lists/:id/items
func (h *ShoppingListsHandler) AddItem(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.usecase.AddItem(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": item})
}

// UpdateItem PATCH /api/lists/:id/items/:itemId - 購入済みの切り替え
func (h *ShoppingListsHandler) UpdateItem(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.usecase.SetPurchased(c.Request.Context(), userID, c.Param("id"), c.Param("itemId"), *req.Purchased)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

// DeleteItem DELETE /api/lists/:id/items/:itemId
func (h *ShoppingListsHandler) DeleteItem(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.usecase.DeleteItem(c.Request.Context(), userID, c.Param("id"), c.Param("itemId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Analytics GET /api/lists/:id/analytics - メンバーごとの集計
func (h *ShoppingListsHandler) Analytics(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	analytics, err := h.usecase.Analytics(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": analytics})
}

// StreamEvents GET /api/lists/:id/events - 商品リストの変更を Server-Sent Events で配信
// 購読はクライアントの接続が切れるまで続く
func (h *ShoppingListsHandler) StreamEvents(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	listID := c.Param("id")

	session, err := h.usecase.OpenSession(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer session.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	snapshots := session.Snapshots()
	c.Stream(func(w io.Writer) bool {
		select {
		case items, ok := <-snapshots:
			if !ok {
				if err := session.Err(); err != nil {
					h.logger.Warn("⚠️ SSE配信を終了", zap.String("listId", listID), zap.Error(err))
					c.SSEvent("error", gin.H{"message": err.Error()})
				}
				return false
			}
			c.SSEvent("items", gin.H{"total": len(items), "data": nonNil(items)})
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
