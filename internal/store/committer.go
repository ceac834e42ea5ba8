package store

import (
	"context"
	"time"

	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"
	"github.com/qtchaos/hocus-pocus-v2/pkg/strutil"
)

var _ contract.CommitPacer = (*Committer)(nil)

// Committer 저장소 커밋 시점을 정책에 따라 결정합니다.
//
// 쓰기 작업마다 커밋하면 트랜잭션 오버헤드가 커지고, 너무 늦게 커밋하면
// 트랜잭션이 비대해지므로, 시간 주기와 건수 임계치를 함께 사용하여
// 커밋 크기와 지연 시간을 모두 제한합니다.
type Committer struct {
	store *Store

	interval       time.Duration // 시간 기반 커밋 주기
	countThreshold int           // 건수 기반 커밋 임계치 (매칭 단계에서만 사용)
	progressEvery  int           // 진행 상황 로그 출력 주기

	lastCommit time.Time // 마지막 커밋 시각
	count      int       // 마지막 커밋 이후 처리 건수
	processed  int       // 시작 이후 전체 처리 건수

	// now 테스트에서 시간 흐름을 제어하기 위해 교체 가능한 시계
	now func() time.Time
}

// NewCommitter 지정된 정책으로 Committer를 생성합니다.
func NewCommitter(s *Store, interval time.Duration, countThreshold, progressEvery int) *Committer {
	c := &Committer{
		store:          s,
		interval:       interval,
		countThreshold: countThreshold,
		progressEvery:  progressEvery,
		now:            time.Now,
	}
	c.lastCommit = c.now()
	return c
}

// Pace 누적 처리 건수를 1 증가시키고, 정책에 따라 필요하면 커밋을 수행합니다.
//
// 커밋 조건:
//   - 마지막 커밋 이후 interval 이상 경과
//   - useCountThreshold가 참이고 누적 건수가 countThreshold에 도달
//
// progressEvery 건마다 진행 상황을 로그로 남깁니다.
func (c *Committer) Pace(ctx context.Context, useCountThreshold bool) (bool, error) {
	c.count++
	c.processed++

	if c.progressEvery > 0 && c.processed%c.progressEvery == 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"processed": strutil.FormatCommas(c.processed),
		}).Info("저장 진행 중")
	}

	if c.now().Sub(c.lastCommit) >= c.interval {
		return true, c.commit(ctx)
	}
	if useCountThreshold && c.count >= c.countThreshold {
		return true, c.commit(ctx)
	}

	return false, nil
}

// Flush 누적된 변경 사항을 즉시 커밋합니다. 배치 종료 시점에 호출됩니다.
func (c *Committer) Flush(ctx context.Context) error {
	return c.commit(ctx)
}

// Reset 처리 건수와 커밋 타이머를 초기화합니다. 파이프라인 실행 시작 시 호출됩니다.
func (c *Committer) Reset() {
	c.lastCommit = c.now()
	c.count = 0
	c.processed = 0
}

func (c *Committer) commit(ctx context.Context) error {
	if err := c.store.Commit(ctx); err != nil {
		return err
	}
	c.lastCommit = c.now()
	c.count = 0
	return nil
}
