package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/usecase"
)

// CalendarHandler リストの予定と定期購入リマインダー
type CalendarHandler struct {
	usecase usecase.CalendarUsecase
}

func NewCalendarHandler(u usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{usecase: u}
}

// CreateEvent POST /api/lists/:id/calendar
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req model.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	event, err := h.usecase.CreateEvent(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": event})
}

// ListEvents GET /api/lists/:id/calendar
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	events, err := h.usecase.ListEvents(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": len(events), "data": nonNil(events)})
}

// DeleteEvent DELETE /api/lists/:id/calendar/:eventId
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.usecase.DeleteEvent(c.Request.Context(), userID, c.Param("id"), c.Param("eventId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateReminder POST /api/lists/:id/reminders
func (h *CalendarHandler) CreateReminder(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req model.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	reminder, err := h.usecase.CreateReminder(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": reminder})
}

// ListReminders GET /api/lists/:id/reminders
func (h *CalendarHandler) ListReminders(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	reminders, err := h.usecase.ListReminders(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": len(reminders), "data": nonNil(reminders)})
}

// DeactivateReminder DELETE /api/lists/:id/reminders/:reminderId
func (h *CalendarHandler) DeactivateReminder(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.usecase.DeactivateReminder(c.Request.Context(), userID, c.Param("id"), c.Param("reminderId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Upcoming GET /api/lists/:id/reminders/upcoming?from&to - 期間内の予定（リマインダー展開込み）
func (h *CalendarHandler) Upcoming(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		respondBadRequest(c, "invalid_parameter", "from must be YYYY-MM-DD or RFC3339")
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		respondBadRequest(c, "invalid_parameter", "to must be YYYY-MM-DD or RFC3339")
		return
	}

	events, err := h.usecase.Upcoming(c.Request.Context(), userID, c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": len(events), "data": nonNil(events)})
}

// parseDateParam 空文字はゼロ値（既定の期間を使う）
func parseDateParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
