package matcher

import (
	"context"
	"testing"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMatchStore 바코드별 상품 목록을 미리 담아두는 인메모리 저장소
type fakeMatchStore struct {
	codes    []int64
	byCode   map[int64][]contract.Product
	rebuilds int

	// 기록된 비교 결과 (상품 ID 기준)
	applied      map[int64][2]float64
	superseded   map[int64]bool
	findErr      error
	rebuildAfter []int64 // RebuildComparisonView 시점에 superseded 처리되어 있어야 하는 ID
	t            *testing.T
}

func newFakeMatchStore(t *testing.T) *fakeMatchStore {
	return &fakeMatchStore{
		byCode:     map[int64][]contract.Product{},
		applied:    map[int64][2]float64{},
		superseded: map[int64]bool{},
		t:          t,
	}
}

func (s *fakeMatchStore) MatchedCodes(_ context.Context) ([]int64, error) {
	return s.codes, nil
}

func (s *fakeMatchStore) FindByCode(_ context.Context, code int64) ([]contract.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byCode[code], nil
}

func (s *fakeMatchStore) ApplyPriceDifference(_ context.Context, productID int64, amount, percent float64) error {
	s.applied[productID] = [2]float64{amount, percent}
	return nil
}

func (s *fakeMatchStore) MarkSuperseded(_ context.Context, productID int64) error {
	s.superseded[productID] = true
	return nil
}

func (s *fakeMatchStore) RebuildComparisonView(_ context.Context) error {
	s.rebuilds++
	for _, id := range s.rebuildAfter {
		assert.True(s.t, s.superseded[id], "상품(%d)은 재구성 전에 제외 처리되어야 합니다", id)
	}
	return nil
}

type fakePacer struct {
	paced   int
	flushed int
}

func (p *fakePacer) Pace(_ context.Context, useCountThreshold bool) (bool, error) {
	p.paced++
	return false, nil
}

func (p *fakePacer) Flush(_ context.Context) error {
	p.flushed++
	return nil
}

func (p *fakePacer) Reset() {}

func TestMatcher_Run(t *testing.T) {
	t.Parallel()

	t.Run("더 싼 레코드에 가격 차이를 기록한다", func(t *testing.T) {
		t.Parallel()

		store := newFakeMatchStore(t)
		store.codes = []int64{111}
		store.byCode[111] = []contract.Product{
			{ID: 1, EAN: 111, Price: 1.80, Store: "Prisma"},
			{ID: 2, EAN: 111, Price: 2.00, Store: "Selver"},
		}
		store.rebuildAfter = []int64{2}
		pacer := &fakePacer{}

		matched, err := New(store, pacer).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, matched)
		assert.Equal(t, [2]float64{0.20, 10.5}, store.applied[1])
		assert.True(t, store.superseded[2])
		assert.False(t, store.superseded[1])
		assert.Equal(t, 1, store.rebuilds)
		assert.Equal(t, 1, pacer.paced)
		assert.Equal(t, 2, pacer.flushed)
	})

	t.Run("가격이 같으면 뒤의 레코드가 대표가 된다", func(t *testing.T) {
		t.Parallel()

		store := newFakeMatchStore(t)
		store.codes = []int64{111}
		store.byCode[111] = []contract.Product{
			{ID: 1, EAN: 111, Price: 2.00, Store: "Prisma"},
			{ID: 2, EAN: 111, Price: 2.00, Store: "Selver"},
		}
		pacer := &fakePacer{}

		matched, err := New(store, pacer).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, matched)
		assert.Contains(t, store.applied, int64(2))
		assert.Equal(t, [2]float64{0, 0}, store.applied[2])
		assert.True(t, store.superseded[1])
		assert.False(t, store.superseded[2])
	})

	t.Run("2건이 아닌 후보는 건너뛴다", func(t *testing.T) {
		t.Parallel()

		store := newFakeMatchStore(t)
		store.codes = []int64{111, 222, 333}
		store.byCode[111] = []contract.Product{
			{ID: 1, EAN: 111, Price: 1.00, Store: "Prisma"},
		}
		store.byCode[222] = []contract.Product{
			{ID: 2, EAN: 222, Price: 1.00, Store: "Prisma"},
			{ID: 3, EAN: 222, Price: 1.50, Store: "Selver"},
			{ID: 4, OtherEAN: 222, Price: 2.00, Store: "Selver"},
		}
		store.byCode[333] = []contract.Product{
			{ID: 5, EAN: 333, Price: 3.00, Store: "Prisma"},
			{ID: 6, OtherEAN: 333, Price: 2.50, Store: "Selver"},
		}
		pacer := &fakePacer{}

		matched, err := New(store, pacer).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, matched)
		assert.NotContains(t, store.applied, int64(1))
		assert.NotContains(t, store.applied, int64(2))
		assert.Equal(t, [2]float64{0.50, 18.2}, store.applied[6])
		assert.True(t, store.superseded[5])
	})

	t.Run("조회 실패는 실행을 중단시킨다", func(t *testing.T) {
		t.Parallel()

		store := newFakeMatchStore(t)
		store.codes = []int64{111}
		store.findErr = apperrors.New(apperrors.Internal, "query failed")

		_, err := New(store, &fakePacer{}).Run(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Internal))
	})

	t.Run("후보가 없어도 비교 결과는 재구성한다", func(t *testing.T) {
		t.Parallel()

		store := newFakeMatchStore(t)
		pacer := &fakePacer{}

		matched, err := New(store, pacer).Run(context.Background())
		require.NoError(t, err)

		assert.Zero(t, matched)
		assert.Equal(t, 1, store.rebuilds)
		assert.Equal(t, 2, pacer.flushed)
	})
}

func TestPriceDifference(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		이름   string
		싼가격  float64
		비싼가격 float64
		기대절대액 float64
		기대비율 float64
	}{
		{이름: "일반적인 가격 차이", 싼가격: 1.80, 비싼가격: 2.00, 기대절대액: 0.20, 기대비율: 10.5},
		{이름: "큰 가격 차이", 싼가격: 2.50, 비싼가격: 3.00, 기대절대액: 0.50, 기대비율: 18.2},
		{이름: "같은 가격", 싼가격: 2.00, 비싼가격: 2.00, 기대절대액: 0, 기대비율: 0},
		{이름: "가격이 모두 0", 싼가격: 0, 비싼가격: 0, 기대절대액: 0, 기대비율: 0},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.이름, func(t *testing.T) {
			t.Parallel()

			amount, percent := priceDifference(tc.싼가격, tc.비싼가격)
			assert.Equal(t, tc.기대절대액, amount)
			assert.Equal(t, tc.기대비율, percent)
		})
	}
}
