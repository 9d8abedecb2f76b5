package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient credentialsFile が存在すればそれを使い、なければデフォルト認証
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string, logger *zap.Logger) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID が設定されていません")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []option.ClientOption
	switch {
	case os.Getenv("K_SERVICE") != "":
		logger.Info("☁️ Cloud Run環境: デフォルト認証を使用")
	case credentialsFile == "":
		logger.Info("🔑 認証ファイル未指定: デフォルト認証を使用")
	default:
		if _, err := os.Stat(credentialsFile); err != nil {
			logger.Warn("⚠️ 認証ファイルが見つからないためデフォルト認証を使用", zap.String("path", credentialsFile))
		} else {
			logger.Info("📄 認証ファイルを使用", zap.String("path", credentialsFile))
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("Firestoreクライアントの初期化に失敗: %w", err)
	}
	logger.Info("✅ Firestore client initialized", zap.String("project", projectID))

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
