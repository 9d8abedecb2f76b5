package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

type UserUsecase interface {
	Register(ctx context.Context, userID string, req *model.RegisterUserRequest) (*model.UserProfile, error)
	Me(ctx context.Context, userID string) (*model.UserProfile, error)
}

type userUsecaseImpl struct {
	users repository.UserProfilesRepository
}

func NewUserUsecase(users repository.UserProfilesRepository) UserUsecase {
	return &userUsecaseImpl{users: users}
}

// Register プロフィールを作成（既にあれば上書き）
func (u *userUsecaseImpl) Register(ctx context.Context, userID string, req *model.RegisterUserRequest) (*model.UserProfile, error) {
	profile := &model.UserProfile{
		ID:          userID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		PostalCode:  req.PostalCode,
		CreatedAt:   time.Now().UTC(),
	}
	if existing, err := u.users.Get(ctx, userID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	}
	if err := u.users.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("プロフィールの保存に失敗: %w", err)
	}
	return profile, nil
}

func (u *userUsecaseImpl) Me(ctx context.Context, userID string) (*model.UserProfile, error) {
	return u.users.Get(ctx, userID)
}
