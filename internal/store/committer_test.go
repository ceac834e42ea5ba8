package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 테스트에서 시간 경과를 제어하기 위한 가짜 시계
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// newTestCommitter 가짜 시계가 연결된 Committer와 sqlmock 핸들을 생성합니다.
func newTestCommitter(t *testing.T, interval time.Duration, threshold, progressEvery int) (*Committer, sqlmock.Sqlmock, *fakeClock) {
	t.Helper()

	s, mock := newMockStore(t)
	clock := &fakeClock{current: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)}

	c := NewCommitter(s, interval, threshold, progressEvery)
	c.now = clock.Now
	c.lastCommit = clock.Now()

	return c, mock, clock
}

// openTx 테스트 대상 Store에 트랜잭션을 미리 열어 둡니다.
func openTx(t *testing.T, c *Committer, mock sqlmock.Sqlmock) {
	t.Helper()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	_, err := c.store.Exists(context.Background(), "prisma", 1)
	require.NoError(t, err)
}

func TestNewCommitter(t *testing.T) {
	t.Run("마지막 커밋 시각은 내장 시계로 초기화된다", func(t *testing.T) {
		s, _ := newMockStore(t)

		c := NewCommitter(s, 15*time.Second, 25, 250)
		assert.WithinDuration(t, c.now(), c.lastCommit, time.Second)
	})
}

func TestCommitter_Pace(t *testing.T) {
	t.Run("시간 주기 미달, 건수 미달이면 커밋하지 않는다", func(t *testing.T) {
		c, _, _ := newTestCommitter(t, 15*time.Second, 25, 250)

		committed, err := c.Pace(context.Background(), true)
		require.NoError(t, err)
		assert.False(t, committed)
	})

	t.Run("시간 주기가 경과하면 커밋한다", func(t *testing.T) {
		c, mock, clock := newTestCommitter(t, 15*time.Second, 25, 250)
		openTx(t, c, mock)

		clock.Advance(15 * time.Second)
		mock.ExpectCommit()

		committed, err := c.Pace(context.Background(), false)
		require.NoError(t, err)
		assert.True(t, committed)
	})

	t.Run("건수 임계치에 도달하면 커밋한다", func(t *testing.T) {
		c, mock, _ := newTestCommitter(t, time.Hour, 3, 250)
		openTx(t, c, mock)

		ctx := context.Background()
		for i := 0; i < 2; i++ {
			committed, err := c.Pace(ctx, true)
			require.NoError(t, err)
			assert.False(t, committed)
		}

		mock.ExpectCommit()
		committed, err := c.Pace(ctx, true)
		require.NoError(t, err)
		assert.True(t, committed)
	})

	t.Run("건수 임계치는 useCountThreshold가 거짓이면 무시된다", func(t *testing.T) {
		c, _, _ := newTestCommitter(t, time.Hour, 3, 250)

		ctx := context.Background()
		for i := 0; i < 10; i++ {
			committed, err := c.Pace(ctx, false)
			require.NoError(t, err)
			assert.False(t, committed)
		}
	})

	t.Run("커밋 후에는 건수와 타이머가 초기화된다", func(t *testing.T) {
		c, mock, clock := newTestCommitter(t, 15*time.Second, 25, 250)
		openTx(t, c, mock)

		clock.Advance(15 * time.Second)
		mock.ExpectCommit()

		committed, err := c.Pace(context.Background(), false)
		require.NoError(t, err)
		require.True(t, committed)

		// 직후의 호출은 다시 커밋 조건에 미달해야 한다.
		committed, err = c.Pace(context.Background(), false)
		require.NoError(t, err)
		assert.False(t, committed)
		assert.Equal(t, clock.Now(), c.lastCommit)
	})
}

func TestCommitter_Flush(t *testing.T) {
	t.Run("강제 커밋은 조건과 무관하게 수행된다", func(t *testing.T) {
		c, mock, _ := newTestCommitter(t, time.Hour, 1000, 250)
		openTx(t, c, mock)

		mock.ExpectCommit()
		require.NoError(t, c.Flush(context.Background()))
	})

	t.Run("트랜잭션이 없어도 에러가 아니다", func(t *testing.T) {
		c, _, _ := newTestCommitter(t, time.Hour, 1000, 250)
		require.NoError(t, c.Flush(context.Background()))
	})
}

func TestCommitter_Reset(t *testing.T) {
	c, _, clock := newTestCommitter(t, 15*time.Second, 25, 250)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := c.Pace(ctx, false)
		require.NoError(t, err)
	}
	require.Equal(t, 5, c.processed)

	clock.Advance(10 * time.Second)
	c.Reset()

	assert.Equal(t, 0, c.count)
	assert.Equal(t, 0, c.processed)
	assert.Equal(t, clock.Now(), c.lastCommit)
}
