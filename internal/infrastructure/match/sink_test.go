package match

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	mock_ports "github.com/JoeShih716/go-k8s-pong-server/test/mocks/core/ports"
)

func TestNewMulti(t *testing.T) {
	ctrl := gomock.NewController(t)
	one := mock_ports.NewMockMatchResultSink(ctrl)

	assert.Equal(t, Noop{}, NewMulti())
	assert.Equal(t, Noop{}, NewMulti(nil, nil))
	assert.Same(t, one, NewMulti(nil, one))
}

func TestMulti_RecordMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	failing := mock_ports.NewMockMatchResultSink(ctrl)
	ok := mock_ports.NewMockMatchResultSink(ctrl)

	result := domain.MatchResult{RoomID: "r1", WinnerSide: "left", ScoreLeft: 5}
	boom := errors.New("mysql down")

	// 第一個失敗，第二個仍然要被呼叫
	failing.EXPECT().RecordMatch(gomock.Any(), result).Return(boom).Times(1)
	ok.EXPECT().RecordMatch(gomock.Any(), result).Return(nil).Times(1)

	err := NewMulti(failing, ok).RecordMatch(context.Background(), result)
	assert.ErrorIs(t, err, boom)
}
