package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/redis"
)

const (
	KeyTokenUserID = "token:%s"
	KeyUserID      = "user:%s"

	// 訪客只保留一小時
	guestTTL = time.Hour
)

// UserService 以 Redis 做為身分來源: token → user id → user JSON
type UserService struct {
	rds *redis.Client
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(client *redis.Client) *UserService {
	return &UserService{rds: client}
}

// GetUserByID implements ports.UserService.
func (service *UserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	userKey := fmt.Sprintf(KeyUserID, id)
	var data domain.User
	if err := service.rds.GetStruct(ctx, userKey, &data); err != nil {
		if redis.IsNil(err) {
			return nil, ports.ErrUserNotFound
		}
		return nil, err
	}
	return &data, nil
}

// GetUser implements ports.UserService.
func (service *UserService) GetUser(ctx context.Context, token string) (*domain.User, error) {
	tokenKey := fmt.Sprintf(KeyTokenUserID, token)
	userID, err := service.rds.Get(ctx, tokenKey)
	if err != nil {
		if redis.IsNil(err) {
			return nil, ports.ErrUserNotFound
		}
		return nil, err
	}
	return service.GetUserByID(ctx, userID)
}

// CreateGuestUser implements ports.UserService.
// 同一個 token 只能綁定一次，第二個連線拿同樣的 token 會得到 ErrTokenInUse。
func (service *UserService) CreateGuestUser(ctx context.Context, token string, user *domain.User) error {
	userKey := fmt.Sprintf(KeyUserID, user.ID)
	if err := service.rds.SetStruct(ctx, userKey, user, guestTTL); err != nil {
		return err
	}

	tokenKey := fmt.Sprintf(KeyTokenUserID, token)
	ok, err := service.rds.SetNX(ctx, tokenKey, user.ID, guestTTL)
	if err != nil {
		return err
	}
	if !ok {
		return ports.ErrTokenInUse
	}
	return nil
}
