package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/usecase"
)

type UsersHandler struct {
	usecase usecase.UserUsecase
}

func NewUsersHandler(u usecase.UserUsecase) *UsersHandler {
	return &UsersHandler{usecase: u}
}

// Register POST /api/users - 認証済みユーザーのプロフィール登録
func (h *UsersHandler) Register(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req model.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	profile, err := h.usecase.Register(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": profile})
}

// Me GET /api/users/me
func (h *UsersHandler) Me(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	profile, err := h.usecase.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}
