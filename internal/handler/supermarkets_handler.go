package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/usecase"
)

// SupermarketsHandler /api/supermarkets 配下のHTTPハンドラー
type SupermarketsHandler struct {
	usecase usecase.SupermarketUsecase
}

func NewSupermarketsHandler(u usecase.SupermarketUsecase) *SupermarketsHandler {
	return &SupermarketsHandler{usecase: u}
}

// GetByPostalCode GET /api/supermarkets/postal/:postalCode - 郵便番号周辺のスーパー
func (h *SupermarketsHandler) GetByPostalCode(c *gin.Context) {
	forceRefresh := false
	if v := c.Query("forceRefresh"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondBadRequest(c, "invalid_parameter", "forceRefresh must be a boolean")
			return
		}
		forceRefresh = parsed
	}
	h.lookup(c, c.Param("postalCode"), forceRefresh)
}

// Refresh POST /api/supermarkets/refresh/:postalCode - キャッシュを無視して再取得
func (h *SupermarketsHandler) Refresh(c *gin.Context) {
	h.lookup(c, c.Param("postalCode"), true)
}

func (h *SupermarketsHandler) lookup(c *gin.Context, postalCode string, forceRefresh bool) {
	var (
		result *model.SupermarketLookupResult
		err    error
	)
	if forceRefresh {
		result, err = h.usecase.Refresh(c.Request.Context(), postalCode)
	} else {
		result, err = h.usecase.LookupByPostalCode(c.Request.Context(), postalCode, false)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"total":      len(result.Supermarkets),
		"data":       nonNil(result.Supermarkets),
		"postalCode": postalCode,
		"cached":     result.Cached,
	})
}

// GetNearby GET /api/supermarkets/nearby?lng&lat&maxDistance - 座標周辺のスーパー
func (h *SupermarketsHandler) GetNearby(c *gin.Context) {
	lng, ok := parseCoordinate(c.Query("lng"), 180)
	if !ok {
		respondBadRequest(c, "invalid_parameter", "lng is required and must be a number between -180 and 180")
		return
	}
	lat, ok := parseCoordinate(c.Query("lat"), 90)
	if !ok {
		respondBadRequest(c, "invalid_parameter", "lat is required and must be a number between -90 and 90")
		return
	}

	maxDistance := model.DefaultSearchRadiusMeters
	if v := c.Query("maxDistance"); v != "" {
		var err error
		maxDistance, err = strconv.Atoi(v)
		if err != nil || maxDistance <= 0 {
			respondBadRequest(c, "invalid_parameter", "maxDistance must be a positive integer (meters)")
			return
		}
	}

	center := model.LatLng{Lat: lat, Lng: lng}
	supermarkets, err := h.usecase.Nearby(c.Request.Context(), center, maxDistance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"total":       len(supermarkets),
		"data":        nonNil(supermarkets),
		"coordinates": center,
		"maxDistance": maxDistance,
	})
}

// Create POST /api/supermarkets - 手動でスーパーを登録
func (h *SupermarketsHandler) Create(c *gin.Context) {
	var req model.CreateSupermarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	supermarket, err := h.usecase.CreateManual(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    supermarket,
	})
}

// Search GET /api/supermarkets/search?q&postalCode - 名前・住所・チェーンの部分一致
func (h *SupermarketsHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		respondBadRequest(c, "missing_parameter", "q parameter is required")
		return
	}

	supermarkets, err := h.usecase.Search(c.Request.Context(), q, c.Query("postalCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   len(supermarkets),
		"data":    nonNil(supermarkets),
	})
}

// Stats GET /api/supermarkets/stats - 件数とチェーン分布
func (h *SupermarketsHandler) Stats(c *gin.Context) {
	stats, err := h.usecase.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// parseCoordinate NaN や範囲外の値は不正として扱う
func parseCoordinate(raw string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}

// nonNil 空の結果を null ではなく [] で返すため
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
