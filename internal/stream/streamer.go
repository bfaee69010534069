package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"user-directory/internal/domain"
)

const DefaultInterval = time.Second

// ErrStreamCancelled 在批次间等待时调用方取消/超时
var ErrStreamCancelled = errors.New("stream cancelled")

// Lister 只需要快照能力
type Lister interface {
	List() []domain.User
}

// Streamer 把一次快照按固定批次推送给调用方，批次之间暂停 Interval。
type Streamer struct {
	src      Lister
	interval time.Duration
	log      *zap.Logger

	// wait 可替换（测试用），默认基于 timer
	wait func(ctx context.Context, d time.Duration) error
}

func New(src Lister, interval time.Duration, l *zap.Logger) *Streamer {
	if interval < 0 {
		interval = 0
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Streamer{src: src, interval: interval, log: l, wait: sleepCtx}
}

func (s *Streamer) Interval() time.Duration { return s.interval }

// NormalizeBatchSize 非正数按 1 处理
func NormalizeBatchSize(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// StreamAll 取一次快照，按 batchSize 切分后逐条 emit。
// 返回 nil 表示全部发送完成；emit 出错或等待期间 ctx 结束则中止，已发送的不回滚。
func (s *Streamer) StreamAll(ctx context.Context, batchSize int, emit func(domain.User) error) error {
	size := NormalizeBatchSize(batchSize)
	snap := s.src.List()

	sent := 0
	for start := 0; start < len(snap); start += size {
		if start > 0 {
			if err := s.wait(ctx, s.interval); err != nil {
				s.log.Debug("stream cancelled",
					zap.Int("sent", sent), zap.Int("total", len(snap)), zap.Error(err))
				return fmt.Errorf("%w after %d of %d users: %w", ErrStreamCancelled, sent, len(snap), err)
			}
		}
		end := min(start+size, len(snap))
		for _, u := range snap[start:end] {
			if err := emit(u); err != nil {
				return fmt.Errorf("emit user %d: %w", u.ID, err)
			}
			sent++
		}
	}
	s.log.Debug("stream completed", zap.Int("sent", sent), zap.Int("batch_size", size))
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
