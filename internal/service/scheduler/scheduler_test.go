package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

// fakeRunner 실행 횟수를 세는 파이프라인 실행기
type fakeRunner struct {
	mu   sync.Mutex
	runs int
}

func (r *fakeRunner) Run(_ context.Context) (contract.RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	return contract.RunSummary{}, nil
}

func (r *fakeRunner) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func TestScheduler_StartAndStop(t *testing.T) {
	t.Run("매초 스케줄은 파이프라인을 반복 실행한다", func(t *testing.T) {
		runner := &fakeRunner{}
		s := NewService(config.SchedulerConfig{Runnable: true, TimeSpec: "* * * * * *"}, runner)

		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup

		wg.Add(1)
		require.NoError(t, s.Start(ctx, &wg))

		assert.Eventually(t, func() bool {
			return runner.runCount() >= 1
		}, 3*time.Second, 50*time.Millisecond)

		cancel()
		wg.Wait()
	})

	t.Run("잘못된 스케줄은 시작 시점에 거부한다", func(t *testing.T) {
		s := NewService(config.SchedulerConfig{Runnable: true, TimeSpec: "not a cron spec"}, &fakeRunner{})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var wg sync.WaitGroup

		wg.Add(1)
		err := s.Start(ctx, &wg)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

		// 시작 실패 시에도 WaitGroup은 해제된다.
		wg.Wait()
	})

	t.Run("중복 시작은 무시된다", func(t *testing.T) {
		runner := &fakeRunner{}
		s := NewService(config.SchedulerConfig{Runnable: true, TimeSpec: "0 0 4 * * *"}, runner)

		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup

		wg.Add(1)
		require.NoError(t, s.Start(ctx, &wg))

		wg.Add(1)
		require.NoError(t, s.Start(ctx, &wg))

		cancel()
		wg.Wait()
	})

	t.Run("Stop은 실행 중이 아닐 때 아무 동작도 하지 않는다", func(t *testing.T) {
		s := NewService(config.SchedulerConfig{}, &fakeRunner{})
		s.Stop()
	})
}
