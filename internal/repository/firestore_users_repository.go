package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

type FirestoreUsersRepository struct {
	client *firestore.Client
}

func NewFirestoreUsersRepository(client *firestore.Client) repository.UserProfilesRepository {
	return &FirestoreUsersRepository{client: client}
}

func (r *FirestoreUsersRepository) Save(ctx context.Context, profile *model.UserProfile) error {
	if _, err := r.client.Collection(usersCollection).Doc(profile.ID).Set(ctx, profile); err != nil {
		return fmt.Errorf("プロフィールの保存に失敗: %w", err)
	}
	return nil
}

func (r *FirestoreUsersRepository) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	doc, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		return nil, wrapNotFound(err, model.ErrNotFound, "ユーザー %s の取得に失敗", userID)
	}
	var profile model.UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("プロフィールの変換に失敗: %w", err)
	}
	profile.ID = doc.Ref.ID
	return &profile, nil
}
