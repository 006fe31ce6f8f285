package ports

import (
	"context"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
)

// UserService 身分提供者: 將連線的 token 對應到穩定的使用者 ID 與顯示名稱
//
//go:generate mockgen -destination=../../../test/mocks/core/ports/mock_user_service.go -package=mock_ports github.com/JoeShih716/go-k8s-pong-server/internal/core/ports UserService
type UserService interface {

	// GetUser 根據 Token 取得使用者，找不到時回傳 ErrUserNotFound
	GetUser(ctx context.Context, token string) (*domain.User, error)
	// CreateGuestUser 建立訪客使用者並綁定 token
	CreateGuestUser(ctx context.Context, token string, user *domain.User) error
	// GetUserByID 根據 ID 取得使用者
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
