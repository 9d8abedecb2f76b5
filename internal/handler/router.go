package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck 依存サービスの疎通確認
type HealthCheck func(ctx context.Context) error

// Handlers ルーターに登録するハンドラー群（nil のものはルートを登録しない）
type Handlers struct {
	Supermarkets *SupermarketsHandler
	Lists        *ShoppingListsHandler
	Calendar     *CalendarHandler
	Users        *UsersHandler
}

type RouterOptions struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	// Auth アプリケーションルートに適用する認証ミドルウェア
	Auth         gin.HandlerFunc
	HealthChecks map[string]HealthCheck
}

// NewRouter 全ルートを登録した gin エンジンを作成
func NewRouter(h Handlers, opts RouterOptions) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	auth := opts.Auth
	if auth == nil {
		auth = HeaderAuth()
	}

	r := gin.New()
	r.Use(Recovery(logger), RequestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(CORS(opts.AllowedOrigins))
	}

	r.GET("/health", healthHandler(opts.HealthChecks))

	api := r.Group("/api")

	if h.Supermarkets != nil {
		s := api.Group("/supermarkets")
		s.GET("/postal/:postalCode", h.Supermarkets.GetByPostalCode)
		s.POST("/refresh/:postalCode", h.Supermarkets.Refresh)
		s.GET("/nearby", h.Supermarkets.GetNearby)
		s.GET("/search", h.Supermarkets.Search)
		s.GET("/stats", h.Supermarkets.Stats)
		s.POST("", h.Supermarkets.Create)
		s.POST("/", h.Supermarkets.Create)
	}

	if h.Users != nil {
		u := api.Group("/users", auth)
		u.POST("", h.Users.Register)
		u.GET("/me", h.Users.Me)
	}

	if h.Lists != nil {
		l := api.Group("/lists", auth)
		l.POST("", h.Lists.CreateList)
		l.GET("", h.Lists.MyLists)
		l.GET("/:id", h.Lists.GetList)
		l.POST("/:id/join", h.Lists.JoinList)
		l.GET("/:id/items", h.Lists.ListItems)
		l.POST("/:id/items", h.Lists.AddItem)
		l.PATCH("/:id/items/:itemId", h.Lists.UpdateItem)
		l.DELETE("/:id/items/:itemId", h.Lists.DeleteItem)
		l.GET("/:id/events", h.Lists.StreamEvents)
		l.GET("/:id/analytics", h.Lists.Analytics)

		if h.Calendar != nil {
			l.GET("/:id/calendar", h.Calendar.ListEvents)
			l.POST("/:id/calendar", h.Calendar.CreateEvent)
			l.DELETE("/:id/calendar/:eventId", h.Calendar.DeleteEvent)
			l.GET("/:id/reminders", h.Calendar.ListReminders)
			l.POST("/:id/reminders", h.Calendar.CreateReminder)
			l.GET("/:id/reminders/upcoming", h.Calendar.Upcoming)
			l.DELETE("/:id/reminders/:reminderId", h.Calendar.DeactivateReminder)
		}
	}

	return r, nil
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":   state,
			"service":  "sprint8-api",
			"services": results,
		})
	}
}
