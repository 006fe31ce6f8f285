package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
)

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService()
	svc.Seed("tok-alice", domain.NewUser("u1", "Alice"))

	u, err := svc.GetUser(ctx, "tok-alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Alice", u.Name)

	_, err = svc.GetUser(ctx, "nope")
	assert.ErrorIs(t, err, ports.ErrUserNotFound)

	_, err = svc.GetUserByID(ctx, "u2")
	assert.ErrorIs(t, err, ports.ErrUserNotFound)
}

func TestUserService_CreateGuestUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService()

	guest := domain.NewGuestUser("g1", "Carol")
	require.NoError(t, svc.CreateGuestUser(ctx, "guest:Carol", guest))

	u, err := svc.GetUser(ctx, "guest:Carol")
	require.NoError(t, err)
	assert.True(t, u.Guest)

	// 回傳的是複本
	u.Name = "changed"
	again, err := svc.GetUserByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Carol", again.Name)

	err = svc.CreateGuestUser(ctx, "guest:Carol", domain.NewGuestUser("g2", "Carol"))
	assert.ErrorIs(t, err, ports.ErrTokenInUse)
}
