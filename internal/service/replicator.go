package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reelzy/backend/internal/repository"
	"github.com/reelzy/backend/pkg/logger"
)

const (
	defaultFanoutWorkers = 4
	defaultFanoutQueue   = 10000
	fanoutJobTimeout     = 5 * time.Second
	fanoutDrainWait      = 2 * time.Second
)

type fanoutOp int

const (
	opFollow fanoutOp = iota + 1
	opUnfollow
)

type fanoutJob struct {
	op     fanoutOp
	userID string
	fanID  string
	enqAt  time.Time
}

// FanReplicator 把关注关系异步冗余进 fans 表；follows 仍是唯一事实来源。
// 队列满时丢弃任务，由下一次同方向操作或离线对账补齐。
type FanReplicator struct {
	fanRepo   repository.FanRepository
	ch        chan fanoutJob
	metricsCh chan time.Duration
}

func NewFanReplicator(fanRepo repository.FanRepository, queueSize int) *FanReplicator {
	if queueSize <= 0 {
		queueSize = defaultFanoutQueue
	}
	return &FanReplicator{
		fanRepo:   fanRepo,
		ch:        make(chan fanoutJob, queueSize),
		metricsCh: make(chan time.Duration, 65536),
	}
}

// Start 启动 worker 池，返回的停止函数会在 ctx 截止前尽量排空队列。
func (r *FanReplicator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = defaultFanoutWorkers
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go r.run(stopCh)
	}
	return func(ctx context.Context) error {
		close(stopCh)
		deadline := time.After(fanoutDrainWait)
		for len(r.ch) > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-deadline:
				return nil
			case <-time.After(50 * time.Millisecond):
			}
		}
		return nil
	}
}

func (r *FanReplicator) run(stopCh <-chan struct{}) {
	for {
		select {
		case job := <-r.ch:
			ctx, cancel := context.WithTimeout(context.Background(), fanoutJobTimeout)
			switch job.op {
			case opFollow:
				_ = r.fanRepo.Create(ctx, job.userID, job.fanID)
			case opUnfollow:
				_ = r.fanRepo.Delete(ctx, job.userID, job.fanID)
			}
			cancel()
			if !job.enqAt.IsZero() {
				select {
				case r.metricsCh <- time.Since(job.enqAt):
				default:
				}
			}
		case <-stopCh:
			return
		}
	}
}

func (r *FanReplicator) EnqueueAdd(userID, fanID string) {
	select {
	case r.ch <- fanoutJob{op: opFollow, userID: userID, fanID: fanID, enqAt: time.Now()}:
	default:
		logger.Warn("fanout queue full, drop add", zap.String("user", userID), zap.String("fan", fanID))
	}
}

func (r *FanReplicator) EnqueueRemove(userID, fanID string) {
	select {
	case r.ch <- fanoutJob{op: opUnfollow, userID: userID, fanID: fanID, enqAt: time.Now()}:
	default:
		logger.Warn("fanout queue full, drop remove", zap.String("user", userID), zap.String("fan", fanID))
	}
}

// Metrics 返回复制落地耗时的只读通道（每处理一条发送一次 duration）。
func (r *FanReplicator) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (r *FanReplicator) QueueLen() int { return len(r.ch) }
