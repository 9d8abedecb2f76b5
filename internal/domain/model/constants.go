package model

import "time"

// ChainOther どのチェーンにも一致しない場合のラベル
const ChainOther = "Otros"

// KnownChains チェーン判定に使う優先順リスト（先に一致したものが採用される）
var KnownChains = []string{
	"Mercadona",
	"Carrefour",
	"Lidl",
	"Aldi",
	"Eroski",
	"Alcampo",
	"Caprabo",
	"Consum",
	"Bonpreu",
	"Condis",
	"Supercor",
	"Hipercor",
	"Ahorramas",
	"Coviran",
	"Spar",
	"Dia",
}

// PlaceCategory Places API に問い合わせるカテゴリ
type PlaceCategory struct {
	Name       string // 内部名
	GeoapifyID string // Geoapify のカテゴリID
}

const (
	CategorySupermarket = "supermarket"
	CategoryFood        = "food"
	CategoryMarketplace = "marketplace"
)

// PlaceCategories 検索対象カテゴリ（この順で結果をマージする）
var PlaceCategories = []PlaceCategory{
	{Name: CategorySupermarket, GeoapifyID: "commercial.supermarket"},
	{Name: CategoryFood, GeoapifyID: "commercial.food_and_drink"},
	{Name: CategoryMarketplace, GeoapifyID: "commercial.marketplace"},
}

const (
	DefaultCacheMaxAge          = 24 * time.Hour
	DefaultSearchRadiusMeters   = 2000
	DuplicateRadiusMeters       = 50
	PlacesLimitPerCategory      = 20
	DefaultPlacesMaxConcurrency = 3
	MaxSearchResults            = 20
	MaxNearbyResults            = 100
)

// IsKnownChain チェーン名が既知のものかフォールバックかを判定する
func IsKnownChain(chain string) bool {
	if chain == ChainOther {
		return true
	}
	for _, c := range KnownChains {
		if c == chain {
			return true
		}
	}
	return false
}
