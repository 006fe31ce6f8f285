package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-k8s-pong-server/internal/app/arena/manager"
	"github.com/JoeShih716/go-k8s-pong-server/internal/app/connector/session"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/clock"
	"github.com/JoeShih716/go-k8s-pong-server/pkg/redis"
	mock_ports "github.com/JoeShih716/go-k8s-pong-server/test/mocks/core/ports"
	mock_wss "github.com/JoeShih716/go-k8s-pong-server/test/mocks/pkg/wss"
)

type nopTransport struct{}

func (nopTransport) Send([]byte) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRooms(t *testing.T) *manager.Manager {
	t.Helper()
	m := manager.New(manager.Config{},
		manager.WithClock(clock.NewFake(time.Unix(1700000000, 0))),
		manager.WithLogger(discardLogger()),
	)
	t.Cleanup(m.Stop)
	return m
}

// dial 在 bufconn 上啟動 Server 並回傳 client 連線
func dial(t *testing.T, srv AdminServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	grpcServer, _ := NewGRPCServer(srv, discardLogger())
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestAdmin_GetStatsAndListRooms(t *testing.T) {
	rooms := newRooms(t)
	sessions := session.NewManager()

	r, err := rooms.CreateRoom("r1")
	require.NoError(t, err)
	_, err = r.AddPlayer("alice", "Alice")
	require.NoError(t, err)
	require.NoError(t, r.AttachTransport("alice", nopTransport{}))
	_, err = rooms.CreateRoom("r2")
	require.NoError(t, err)

	client := NewAdminClient(dial(t, NewService(rooms, sessions, discardLogger())))
	ctx := context.Background()

	stats, err := client.GetStats(ctx)
	require.NoError(t, err)
	fields := stats.GetFields()
	assert.Equal(t, 2.0, fields["rooms"].GetNumberValue())
	assert.Equal(t, 0.0, fields["playing"].GetNumberValue())
	assert.Equal(t, 1.0, fields["connectedSeats"].GetNumberValue())
	assert.Equal(t, 0.0, fields["sessions"].GetNumberValue())

	list, err := client.ListRooms(ctx)
	require.NoError(t, err)
	items := list.GetFields()["rooms"].GetListValue().GetValues()
	require.Len(t, items, 2)
	first := items[0].GetStructValue().GetFields()
	assert.Equal(t, "r1", first["id"].GetStringValue())
	assert.Equal(t, "waitingForPlayers", first["status"].GetStringValue())
	seats := first["seats"].GetListValue().GetValues()
	require.Len(t, seats, 1)
	assert.Equal(t, "left", seats[0].GetStructValue().GetFields()["side"].GetStringValue())
}

func TestAdmin_CloseRoom(t *testing.T) {
	rooms := newRooms(t)
	r, err := rooms.CreateRoom("r1")
	require.NoError(t, err)

	client := NewAdminClient(dial(t, NewService(rooms, session.NewManager(), discardLogger())))
	ctx := context.Background()

	require.NoError(t, client.CloseRoom(ctx, "r1"))
	assert.True(t, r.Closed())
	_, err = rooms.GetRoom("r1")
	assert.ErrorIs(t, err, manager.ErrRoomNotFound)

	err = client.CloseRoom(ctx, "r1")
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = client.CloseRoom(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAdmin_KickSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mock_wss.NewMockClient(ctrl)
	conn.EXPECT().ID().Return("sess-1").AnyTimes()
	conn.EXPECT().Kick("Kicked by admin").Return(nil).Times(1)

	sessions := session.NewManager()
	sessions.Add(domain.NewSession(conn))

	client := NewAdminClient(dial(t, NewService(newRooms(t), sessions, discardLogger())))
	ctx := context.Background()

	kicked, err := client.KickSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, kicked)

	kicked, err = client.KickSession(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, kicked)
}

func TestAdmin_ListMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_ports.NewMockMatchRepository(ctrl)

	finished := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	repo.EXPECT().ListByUser(gomock.Any(), "bob", historyLimit).Return([]domain.MatchResult{
		{
			RoomID:      "r1",
			WinnerSide:  "right",
			ScoreLeft:   2,
			ScoreRight:  5,
			LeftUserID:  "alice",
			RightUserID: "bob",
			StartedAt:   finished.Add(-3 * time.Minute),
			FinishedAt:  finished,
		},
	}, nil).Times(1)
	repo.EXPECT().ListByUser(gomock.Any(), "carol", historyLimit).Return(nil, errors.New("db down")).Times(1)

	svc := NewService(newRooms(t), session.NewManager(), discardLogger(), WithMatchHistory(repo))
	client := NewAdminClient(dial(t, svc))
	ctx := context.Background()

	resp, err := client.ListMatches(ctx, "bob")
	require.NoError(t, err)
	items := resp.GetFields()["matches"].GetListValue().GetValues()
	require.Len(t, items, 1)
	m := items[0].GetStructValue().GetFields()
	assert.Equal(t, "r1", m["roomId"].GetStringValue())
	assert.Equal(t, "bob", m["winnerUserId"].GetStringValue())
	assert.Equal(t, 5.0, m["scoreRight"].GetNumberValue())
	assert.Equal(t, "2026-03-04T05:06:07Z", m["finishedAt"].GetStringValue())

	_, err = client.ListMatches(ctx, "carol")
	assert.Equal(t, codes.Internal, status.Code(err))

	_, err = client.ListMatches(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAdmin_ListMatchesWithoutHistory(t *testing.T) {
	client := NewAdminClient(dial(t, NewService(newRooms(t), session.NewManager(), discardLogger())))
	_, err := client.ListMatches(context.Background(), "bob")
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestAdmin_Health(t *testing.T) {
	conn := dial(t, NewService(newRooms(t), session.NewManager(), discardLogger()))
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestAdmin_Unimplemented(t *testing.T) {
	type bare struct{ UnimplementedAdminServer }
	client := NewAdminClient(dial(t, bare{}))
	_, err := client.GetStats(context.Background())
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

// fakeSubscriber 直接保存 handler，測試時手動推送訊息
type fakeSubscriber struct {
	mu       sync.Mutex
	channel  string
	handlers []redis.MessageHandler
}

func (f *fakeSubscriber) Subscribe(_ context.Context, channel string, handler redis.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channel = channel
	f.handlers = append(f.handlers, handler)
	return nil
}

func (f *fakeSubscriber) publish(payload string) {
	f.mu.Lock()
	hs := append([]redis.MessageHandler(nil), f.handlers...)
	f.mu.Unlock()
	for _, h := range hs {
		h(payload)
	}
}

func TestListenCloseRoom(t *testing.T) {
	rooms := newRooms(t)
	r, err := rooms.CreateRoom("r1")
	require.NoError(t, err)

	sub := &fakeSubscriber{}
	require.NoError(t, ListenCloseRoom(context.Background(), sub, rooms, discardLogger()))
	assert.Equal(t, ChannelCloseRoom, sub.channel)

	sub.publish("unknown")
	sub.publish("  ")
	assert.False(t, r.Closed())

	sub.publish(" r1\n")
	assert.True(t, r.Closed())
	assert.Equal(t, 0, rooms.Stats().Rooms)
}
