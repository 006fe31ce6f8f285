package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	mock_wss "github.com/JoeShih716/go-k8s-pong-server/test/mocks/pkg/wss"
)

func newMockSession(ctrl *gomock.Controller, id string) (*domain.Session, *mock_wss.MockClient) {
	mockClient := mock_wss.NewMockClient(ctrl)
	mockClient.EXPECT().ID().Return(id).AnyTimes()
	return domain.NewSession(mockClient), mockClient
}

func TestManager_Add_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := NewManager()
	sess, _ := newMockSession(ctrl, "sess-1")

	// Test Add
	mgr.Add(sess)
	mgr.Add(sess)
	assert.Equal(t, int64(1), mgr.Count())

	// Test Get
	got, ok := mgr.Get("sess-1")
	assert.True(t, ok)
	assert.Same(t, sess, got)

	// Test Get Non-Existent
	_, ok = mgr.Get("non-existent")
	assert.False(t, ok)
}

func TestManager_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := NewManager()
	sess, _ := newMockSession(ctrl, "sess-1")

	mgr.Add(sess)
	mgr.Remove("sess-1")
	assert.Equal(t, int64(0), mgr.Count())

	// 重複移除不影響計數
	mgr.Remove("sess-1")
	assert.Equal(t, int64(0), mgr.Count())
}

func TestManager_Kick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := NewManager()
	sess, mockClient := newMockSession(ctrl, "sess-1")
	mgr.Add(sess)

	mockClient.EXPECT().Kick("admin").Return(nil)
	assert.True(t, mgr.Kick("sess-1", "admin"))
	assert.False(t, mgr.Kick("ghost", "admin"))
}

func TestManager_Range(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := NewManager()
	ids := []string{"s1", "s2", "s3"}
	for _, id := range ids {
		sess, _ := newMockSession(ctrl, id)
		mgr.Add(sess)
	}

	foundIDs := make(map[string]bool)
	mgr.Range(func(s *domain.Session) bool {
		foundIDs[s.ID] = true
		return true
	})
	assert.Len(t, foundIDs, 3)

	visited := 0
	mgr.Range(func(*domain.Session) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestManager_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mgr := NewManager()
	sessions := make([]*domain.Session, 100)
	for i := range sessions {
		sessions[i], _ = newMockSession(ctrl, fmt.Sprintf("sess-%d", i))
	}

	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(s *domain.Session) {
			defer wg.Done()
			mgr.Add(s)
			_, _ = mgr.Get(s.ID)
		}(sess)
	}
	wg.Wait()
	assert.Equal(t, int64(100), mgr.Count())

	for _, sess := range sessions {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			mgr.Remove(id)
		}(sess.ID)
	}
	wg.Wait()
	assert.Equal(t, int64(0), mgr.Count())
}
