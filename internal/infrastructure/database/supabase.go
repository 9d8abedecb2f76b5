package database

import (
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// SupabaseClient Supabaseクライアントのラッパー
type SupabaseClient struct {
	Client *supabase.Client
}

// NewSupabaseClient 新しいSupabaseクライアントを作成
func NewSupabaseClient(supabaseURL, supabaseAnonKey string) (*SupabaseClient, error) {
	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL が設定されていません")
	}
	if supabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY が設定されていません")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseAnonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの初期化に失敗: %w", err)
	}

	return &SupabaseClient{
		Client: client,
	}, nil
}

// GetClient Supabaseクライアントを取得
func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.Client
}

// HealthCheck クライアントが初期化済みか確認
func (sc *SupabaseClient) HealthCheck() error {
	if sc.Client == nil {
		return fmt.Errorf("Supabaseクライアントが初期化されていません")
	}
	return nil
}

// VerifyAccessToken アクセストークンを検証し、ユーザーIDを返す
func (sc *SupabaseClient) VerifyAccessToken(token string) (string, error) {
	if token == "" {
		return "", model.ErrUnauthorized
	}
	user, err := sc.Client.Auth.WithToken(token).GetUser()
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
	}
	return user.ID.String(), nil
}
