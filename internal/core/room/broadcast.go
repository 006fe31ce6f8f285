package room

import (
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/protocol"
)

// broadcastLocked 編碼一次後推送給所有玩家與觀戰者。
// Transport.Send 不會阻塞；失敗的連線只記錄下來，在下一次 Tick 才視為斷線。
func (r *Room) broadcastLocked(t protocol.MessageType, data any) {
	frame := r.encodeLocked(t, data)
	if frame == nil {
		return
	}
	for _, uid := range r.order {
		if tr, ok := r.transports[uid]; ok {
			r.sendLocked(tr, frame)
		}
	}
	for tr := range r.spectators {
		r.sendLocked(tr, frame)
	}
}

func (r *Room) sendLocked(t Transport, frame []byte) {
	if frame == nil {
		return
	}
	if err := t.Send(frame); err != nil {
		r.logger.Warn("Send failed, detaching on next tick", "error", err)
		r.failed[t] = struct{}{}
	}
}

func (r *Room) encodeLocked(t protocol.MessageType, data any) []byte {
	frame, err := protocol.Encode(t, r.id, data, r.clock.Now())
	if err != nil {
		r.logger.Error("Failed to encode message", "type", t, "error", err)
		return nil
	}
	return frame
}

func (r *Room) stateDataLocked() protocol.GameStateData {
	return protocol.GameStateData{
		GameState: r.stateViewLocked(),
		Players:   r.playersLocked(),
	}
}

func (r *Room) stateViewLocked() protocol.GameStateView {
	s := r.engine.Snapshot()
	return protocol.GameStateView{
		Status:      string(r.status),
		FieldWidth:  s.FieldWidth,
		FieldHeight: s.FieldHeight,
		Ball: protocol.BallView{
			X:      s.Ball.Position.X,
			Y:      s.Ball.Position.Y,
			VX:     s.Ball.Velocity.X,
			VY:     s.Ball.Velocity.Y,
			Radius: s.Ball.Radius,
		},
		Paddles: protocol.PaddlesView{
			Width:  s.PaddleWidth,
			Height: s.PaddleHeight,
			LeftY:  s.PaddleLeftY,
			RightY: s.PaddleRightY,
		},
		Score: protocol.ScoreView{Left: s.ScoreLeft, Right: s.ScoreRight},
		Speed: s.CurrentSpeed,
	}
}

func (r *Room) playersLocked() []protocol.PlayerView {
	players := make([]protocol.PlayerView, 0, 2)
	for _, uid := range r.order {
		s, ok := r.seats[uid]
		if !ok {
			continue
		}
		_, connected := r.transports[uid]
		players = append(players, protocol.PlayerView{
			UserID:      s.UserID,
			DisplayName: s.DisplayName,
			Side:        string(s.Side),
			Player:      s.Player(),
			Connected:   connected,
			Ready:       s.Ready,
		})
	}
	return players
}

// snapshotFrameLocked 新連線的第一個訊息。比賽已結束時送終局訊息而不是 game_state
func (r *Room) snapshotFrameLocked() []byte {
	if r.status == StatusEnded {
		return r.encodeLocked(protocol.TypeEnded, r.endedDataLocked())
	}
	return r.encodeLocked(protocol.TypeState, r.stateDataLocked())
}

func (r *Room) endedDataLocked() protocol.EndedData {
	winner := r.engine.Winner()
	return protocol.EndedData{
		Winner:       string(winner),
		WinnerPlayer: winner.Player(),
		FinalState:   r.stateViewLocked(),
	}
}
