package maps

import (
	"context"
	"fmt"
	"net/url"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// Resolve 郵便番号をスペイン国内に限定してジオコーディングし、最初の結果の座標を返す
func (g *GeoapifyClient) Resolve(ctx context.Context, postalCode string) (model.LatLng, error) {
	if g.apiKey == "" {
		return model.LatLng{}, model.ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("text", postalCode)
	params.Set("type", "postcode")
	params.Set("filter", "countrycode:es")
	params.Set("format", "geojson")

	fc, err := g.getFeatures(ctx, g.buildURL("/v1/geocode/search", params))
	if err != nil {
		return model.LatLng{}, fmt.Errorf("%w: %w", model.ErrGeocodingUnavailable, err)
	}

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		p := f.Point()
		return model.LatLng{Lat: p.Lat(), Lng: p.Lon()}, nil
	}
	return model.LatLng{}, fmt.Errorf("%w: %s", model.ErrPostalCodeNotFound, postalCode)
}
