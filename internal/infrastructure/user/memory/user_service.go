package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
)

// UserService 記憶體版的身分來源，給 local 環境與測試使用
type UserService struct {
	mu     sync.RWMutex
	tokens map[string]string
	users  map[string]*domain.User
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService() *UserService {
	return &UserService{
		tokens: make(map[string]string),
		users:  make(map[string]*domain.User),
	}
}

// Seed 預先登記一組 token → user
func (s *UserService) Seed(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = user.ID
	s.users[user.ID] = user
}

func (s *UserService) GetUser(ctx context.Context, token string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	return s.GetUserByID(ctx, id)
}

func (s *UserService) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserService) CreateGuestUser(_ context.Context, token string, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tokens[token]; exists {
		return ports.ErrTokenInUse
	}
	cp := *user
	s.tokens[token] = user.ID
	s.users[user.ID] = &cp
	return nil
}
