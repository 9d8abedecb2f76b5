package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paulare17/Sprint8-sub000/internal/config"
	domainrepo "github.com/paulare17/Sprint8-sub000/internal/domain/repository"
	"github.com/paulare17/Sprint8-sub000/internal/domain/service"
	"github.com/paulare17/Sprint8-sub000/internal/handler"
	"github.com/paulare17/Sprint8-sub000/internal/infrastructure/database"
	"github.com/paulare17/Sprint8-sub000/internal/infrastructure/firestore"
	"github.com/paulare17/Sprint8-sub000/internal/infrastructure/maps"
	"github.com/paulare17/Sprint8-sub000/internal/logging"
	"github.com/paulare17/Sprint8-sub000/internal/repository"
	"github.com/paulare17/Sprint8-sub000/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 設定の読み込みに失敗: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("❌ サーバーの起動に失敗", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	healthChecks := map[string]handler.HealthCheck{}

	// Supabase は店舗ストアと認証の両方で使う
	var supabaseClient *database.SupabaseClient
	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey != "" {
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return fmt.Errorf("supabase クライアントの初期化に失敗: %w", err)
		}
		logger.Info("✅ Supabaseクライアント初期化完了")
		healthChecks["supabase"] = func(context.Context) error { return client.HealthCheck() }
		supabaseClient = client
	}

	supermarketsRepo, closeStore, err := newSupermarketsRepository(ctx, cfg, supabaseClient, healthChecks, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	geoapify := maps.NewGeoapifyClient(cfg.GeoapifyAPIKey)
	if cfg.GeoapifyBaseURL != "" {
		geoapify = geoapify.WithBaseURL(cfg.GeoapifyBaseURL)
	}
	if cfg.GeoapifyAPIKey == "" {
		logger.Warn("⚠️ GEOAPIFY_API_KEY が未設定です。キャッシュ外の郵便番号検索は失敗します")
	}

	supermarketUsecase := usecase.NewSupermarketUsecase(
		geoapify,
		service.NewPlacesAggregator(geoapify, logger, cfg.PlacesMaxConcurrency),
		service.NewSupermarketCache(supermarketsRepo, logger),
		cfg.CacheMaxAge(),
		logger,
	)

	handlers := handler.Handlers{
		Supermarkets: handler.NewSupermarketsHandler(supermarketUsecase),
	}

	if cfg.FirestoreEnabled() {
		fsClient, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile, logger)
		if err != nil {
			return fmt.Errorf("firestore クライアントの初期化に失敗: %w", err)
		}
		defer fsClient.Close()

		listsRepo := repository.NewFirestoreShoppingListsRepository(fsClient.GetClient(), logger)
		handlers.Lists = handler.NewShoppingListsHandler(usecase.NewShoppingListUsecase(listsRepo, listsRepo, logger), logger)
		handlers.Users = handler.NewUsersHandler(usecase.NewUserUsecase(repository.NewFirestoreUsersRepository(fsClient.GetClient())))
		handlers.Calendar = handler.NewCalendarHandler(usecase.NewCalendarUsecase(listsRepo, repository.NewFirestoreCalendarRepository(fsClient.GetClient())))
	} else {
		logger.Warn("⚠️ FIRESTORE_PROJECT_ID が未設定のため、リスト機能は無効です")
	}

	opts := handler.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Auth:           handler.HeaderAuth(),
		HealthChecks:   healthChecks,
	}
	if cfg.AuthMode == config.AuthModeSupabase {
		opts.Auth = handler.BearerAuth(supabaseClient)
	}

	router, err := handler.NewRouter(handlers, opts)
	if err != nil {
		return fmt.Errorf("ルーターの初期化に失敗: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 サーバー起動", zap.String("addr", cfg.Addr()), zap.String("store", cfg.SupermarketStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info("🛑 シャットダウン開始", zap.String("signal", s.String()))
	case err := <-errCh:
		return err
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func newSupermarketsRepository(
	ctx context.Context,
	cfg config.Config,
	supabaseClient *database.SupabaseClient,
	healthChecks map[string]handler.HealthCheck,
	logger *zap.Logger,
) (domainrepo.SupermarketsRepository, func(), error) {
	switch cfg.SupermarketStore {
	case config.StorePostgres:
		pg, err := database.NewPostgreSQLClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres への接続に失敗: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		logger.Info("✅ PostgreSQL接続完了")
		healthChecks["postgres"] = pg.HealthCheck
		return repository.NewPostgresSupermarketsRepository(pg), func() { _ = pg.Close() }, nil
	case config.StoreSupabase:
		return repository.NewSupabaseSupermarketsRepository(supabaseClient), func() {}, nil
	default:
		logger.Warn("⚠️ メモリ上の店舗ストアを使用します（再起動で消えます）")
		return repository.NewMemorySupermarketsRepository(), func() {}, nil
	}
}
