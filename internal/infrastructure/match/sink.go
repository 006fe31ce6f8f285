package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/JoeShih716/go-k8s-pong-server/internal/core/domain"
	"github.com/JoeShih716/go-k8s-pong-server/internal/core/ports"
)

// Noop 丟棄所有結果，沒有設定任何儲存時使用
type Noop struct{}

func (Noop) RecordMatch(context.Context, domain.MatchResult) error { return nil }

// Multi 依序寫入多個 sink，單一 sink 失敗不影響其他 sink
type Multi []ports.MatchResultSink

var (
	_ ports.MatchResultSink = Noop{}
	_ ports.MatchResultSink = Multi(nil)
)

// NewMulti 組合多個 sink，nil 會被略過。沒有任何 sink 時回傳 Noop。
func NewMulti(sinks ...ports.MatchResultSink) ports.MatchResultSink {
	var out Multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Noop{}
	case 1:
		return out[0]
	}
	return out
}

func (m Multi) RecordMatch(ctx context.Context, result domain.MatchResult) error {
	var errs []error
	for i, s := range m {
		if err := s.RecordMatch(ctx, result); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
