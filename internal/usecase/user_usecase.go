package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/suraj946/goss-up-server/infrastructure/cache"
	"github.com/suraj946/goss-up-server/internal/entity"
	"github.com/suraj946/goss-up-server/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

const profileCacheTTL = 5 * time.Minute

type UserUsecase interface {
	Get(ctx context.Context, userId string) (entity.User, error)
	UpdateProfile(ctx context.Context, userId, name, bio, profilePic string) (entity.User, error)
}

type userUsecase struct {
	userRepo repository.UserRepository
	profiles *cache.ProfileCache
}

func NewUserUsecase(userRepo repository.UserRepository, profiles *cache.ProfileCache) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		profiles: profiles,
	}
}

func (u *userUsecase) Get(ctx context.Context, userId string) (entity.User, error) {
	user, err := u.userRepo.Get(ctx, userId)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return entity.User{}, ErrUserNotFound
		}
		return entity.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userId, name, bio, profilePic string) (entity.User, error) {
	user, err := u.userRepo.Get(ctx, userId)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return entity.User{}, ErrUserNotFound
		}
		return entity.User{}, err
	}

	if name != "" {
		user.Name = name
	}
	if bio != "" {
		user.Bio = bio
	}
	if profilePic != "" {
		user.ProfilePic = profilePic
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return entity.User{}, err
	}

	// Stale summaries would otherwise linger in conversation lists.
	if u.profiles != nil {
		u.profiles.Delete(userId)
	}

	user.Password = ""
	return user, nil
}
