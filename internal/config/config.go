package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSupabase = "supabase"

	AuthModeSupabase = "supabase"
	AuthModeHeader   = "header"
)

// Config アプリケーション全体の設定
// config.yaml の値を既定値とし、環境変数が優先される
type Config struct {
	Port string `yaml:"port"`

	GeoapifyAPIKey  string `yaml:"geoapify_api_key"`
	GeoapifyBaseURL string `yaml:"geoapify_base_url"`

	SupermarketStore string `yaml:"supermarket_store"`
	DatabaseURL      string `yaml:"database_url"`
	SupabaseURL      string `yaml:"supabase_url"`
	SupabaseAnonKey  string `yaml:"supabase_anon_key"`

	FirestoreProjectID string `yaml:"firestore_project_id"`
	CredentialsFile    string `yaml:"google_application_credentials"`

	AuthMode           string   `yaml:"auth_mode"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	CacheMaxAgeHours     int `yaml:"cache_max_age_hours"`
	PlacesMaxConcurrency int `yaml:"places_max_concurrency"`

	LogLevel string `yaml:"log_level"`
}

// Default 設定ファイルも環境変数もない場合の値
func Default() Config {
	return Config{
		Port:                 "8080",
		SupermarketStore:     StoreMemory,
		AuthMode:             AuthModeHeader,
		CORSAllowedOrigins:   []string{"*"},
		CacheMaxAgeHours:     int(model.DefaultCacheMaxAge / time.Hour),
		PlacesMaxConcurrency: model.DefaultPlacesMaxConcurrency,
		LogLevel:             "info",
	}
}

// Load .env と config.yaml（CONFIG_FILE で変更可）と環境変数から設定を読み込む
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	path := getenv("CONFIG_FILE", "config.yaml")
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("設定ファイル %s の読み込みに失敗: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイル %s の解析に失敗: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getenv("PORT", c.Port)
	c.GeoapifyAPIKey = getenv("GEOAPIFY_API_KEY", c.GeoapifyAPIKey)
	c.GeoapifyBaseURL = getenv("GEOAPIFY_BASE_URL", c.GeoapifyBaseURL)
	c.SupermarketStore = strings.ToLower(getenv("SUPERMARKET_STORE", c.SupermarketStore))
	c.DatabaseURL = getenv("DATABASE_URL", c.DatabaseURL)
	c.SupabaseURL = getenv("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseAnonKey = getenv("SUPABASE_ANON_KEY", c.SupabaseAnonKey)
	c.FirestoreProjectID = getenv("FIRESTORE_PROJECT_ID", c.FirestoreProjectID)
	c.CredentialsFile = getenv("GOOGLE_APPLICATION_CREDENTIALS", c.CredentialsFile)
	c.AuthMode = strings.ToLower(getenv("AUTH_MODE", c.AuthMode))
	c.LogLevel = strings.ToLower(getenv("LOG_LEVEL", c.LogLevel))

	if v := getenv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}

	var err error
	if c.CacheMaxAgeHours, err = getenvInt("CACHE_MAX_AGE_HOURS", c.CacheMaxAgeHours); err != nil {
		return err
	}
	if c.PlacesMaxConcurrency, err = getenvInt("PLACES_MAX_CONCURRENCY", c.PlacesMaxConcurrency); err != nil {
		return err
	}
	return nil
}

// Validate 選択されたストアや認証方式に必要な値が揃っているか確認する
func (c *Config) Validate() error {
	switch c.SupermarketStore {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("SUPERMARKET_STORE=postgres には DATABASE_URL が必要です")
		}
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return errors.New("SUPERMARKET_STORE=supabase には SUPABASE_URL と SUPABASE_ANON_KEY が必要です")
		}
	default:
		return fmt.Errorf("不明な SUPERMARKET_STORE です: %q", c.SupermarketStore)
	}

	switch c.AuthMode {
	case AuthModeHeader:
	case AuthModeSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return errors.New("AUTH_MODE=supabase には SUPABASE_URL と SUPABASE_ANON_KEY が必要です")
		}
	default:
		return fmt.Errorf("不明な AUTH_MODE です: %q", c.AuthMode)
	}

	if c.CacheMaxAgeHours <= 0 {
		return fmt.Errorf("CACHE_MAX_AGE_HOURS は正の値が必要です: %d", c.CacheMaxAgeHours)
	}
	if c.PlacesMaxConcurrency <= 0 {
		return fmt.Errorf("PLACES_MAX_CONCURRENCY は正の値が必要です: %d", c.PlacesMaxConcurrency)
	}
	return nil
}

// CacheMaxAge キャッシュの有効期間
func (c Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeHours) * time.Hour
}

// Addr http.Server 用のアドレス
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// FirestoreEnabled リスト機能に Firestore を使うか
func (c Config) FirestoreEnabled() bool {
	return c.FirestoreProjectID != ""
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s が整数ではありません: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
