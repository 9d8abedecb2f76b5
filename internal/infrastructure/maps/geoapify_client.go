package maps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"
)

const defaultGeoapifyBaseURL = "https://api.geoapify.com"

// GeoapifyClient はGeoapifyのジオコーディング・Places APIクライアント
type GeoapifyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeoapifyClient は新しいクライアントを生成する
func NewGeoapifyClient(apiKey string) *GeoapifyClient {
	return &GeoapifyClient{
		apiKey:     apiKey,
		baseURL:    defaultGeoapifyBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL 接続先を差し替える（テスト・プロキシ用）
func (g *GeoapifyClient) WithBaseURL(baseURL string) *GeoapifyClient {
	if baseURL != "" {
		g.baseURL = baseURL
	}
	return g
}

func (g *GeoapifyClient) buildURL(path string, params url.Values) string {
	params.Set("apiKey", g.apiKey)
	return fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())
}

// getFeatures GETリクエストを送り、GeoJSONのFeatureCollectionとしてパースする
func (g *GeoapifyClient) getFeatures(ctx context.Context, reqURL string) (*geojson.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み込みに失敗: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("GeoJSONのパースに失敗: %w", err)
	}
	return fc, nil
}

// stringProp 文字列でないプロパティは空文字として扱う
func stringProp(p geojson.Properties, key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}
