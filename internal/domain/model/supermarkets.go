package model

import (
	"time"
)

// LatLng 緯度経度を表す基本的な型（ジオコーディングや周辺検索で使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry GeoJSON Point に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// NewPointGeometry 経度・緯度から Point を作成
func NewPointGeometry(lng, lat float64) *Geometry {
	return &Geometry{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

// SupermarketSource スーパーのデータ取得元
type SupermarketSource string

const (
	SourceGeoapify SupermarketSource = "geoapify" // 外部APIでジオコーディングされたもの
	SourceManual   SupermarketSource = "manual"   // ユーザーが手動で登録したもの
)

// Supermarket 郵便番号ごとにキャッシュされるスーパーのレコード
type Supermarket struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	PostalCode  string            `json:"postalCode"`
	Chain       string            `json:"chain"`
	Location    *Geometry         `json:"location"`
	Source      SupermarketSource `json:"source"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Distance    *int              `json:"distance,omitempty"` // 周辺検索時のみ（メートル）
}

// ToLatLng スーパーの位置情報をLatLng型に変換
func (s *Supermarket) ToLatLng() LatLng {
	if s.Location != nil && len(s.Location.Coordinates) >= 2 {
		return LatLng{
			Lat: s.Location.Coordinates[1],
			Lng: s.Location.Coordinates[0],
		}
	}
	return LatLng{}
}

// SetDistance 周辺検索で計算した距離を設定
func (s *Supermarket) SetDistance(meters int) {
	s.Distance = &meters
}

// SupermarketCandidate Places APIから取得した保存前の候補
type SupermarketCandidate struct {
	Name       string
	Address    string
	PostalCode string
	Chain      string
	Location   LatLng
	Categories []string
}

// CreateSupermarketRequest POST /api/supermarkets のリクエスト
type CreateSupermarketRequest struct {
	Name       string   `json:"name" binding:"required"`
	Address    string   `json:"address" binding:"required"`
	PostalCode string   `json:"postalCode" binding:"required,postalcode"`
	Chain      string   `json:"chain"`
	Lng        *float64 `json:"lng" binding:"required,min=-180,max=180"`
	Lat        *float64 `json:"lat" binding:"required,min=-90,max=90"`
}

// SupermarketLookupResult 郵便番号検索の結果
type SupermarketLookupResult struct {
	Supermarkets []Supermarket
	Cached       bool
}

// SupermarketStats GET /api/supermarkets/stats のデータ
type SupermarketStats struct {
	Total    int            `json:"total"`
	ByChain  map[string]int `json:"byChain"`
	BySource map[string]int `json:"bySource"`
}
