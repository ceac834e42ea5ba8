package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockStore sqlmock 기반의 Store와 기대값 검증용 핸들을 생성합니다.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return New(db), mock
}

func sampleProduct() *contract.Product {
	return &contract.Product{
		EAN:       4740098076711,
		OtherEAN:  4740098076728,
		Name:      "Piim Alma",
		Brand:     "Alma",
		Category:  "Piimatooted",
		ImageURL:  "https://example.com/img.jpg",
		Price:     1.25,
		UnitPrice: 1.25,
		Weight:    "1 l",
		URL:       "https://example.com/p/1",
		Store:     "prisma",
	}
}

func TestStore_Exists(t *testing.T) {
	t.Run("존재하는 상품", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE ean = ? AND store = ? LIMIT 1")).
			WithArgs(int64(4740098076711), "prisma").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		exists, err := s.Exists(context.Background(), "prisma", 4740098076711)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("존재하지 않는 상품", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WithArgs(int64(1), "selver").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		exists, err := s.Exists(context.Background(), "selver", 1)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestStore_Insert(t *testing.T) {
	t.Run("새 상품을 저장하고 ID를 부여받는다", func(t *testing.T) {
		s, mock := newMockStore(t)
		p := sampleProduct()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WithArgs(p.EAN, "prisma").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
			WithArgs(p.EAN, p.OtherEAN, p.Name, p.Brand, p.Category, p.ImageURL,
				p.IsAgeRestricted, p.IsDiscount, p.Price, "prisma",
				p.UnitPrice, p.URL, p.Weight).
			WillReturnResult(sqlmock.NewResult(42, 1))

		require.NoError(t, s.Insert(context.Background(), p))
		assert.Equal(t, int64(42), p.ID)
	})

	t.Run("이미 존재하는 상품은 Conflict 에러", func(t *testing.T) {
		s, mock := newMockStore(t)
		p := sampleProduct()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WithArgs(p.EAN, "prisma").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		err := s.Insert(context.Background(), p)
		assert.ErrorIs(t, err, contract.ErrProductAlreadyExists)
	})
}

func TestStore_Update(t *testing.T) {
	t.Run("기존 상품을 갱신한다", func(t *testing.T) {
		s, mock := newMockStore(t)
		p := sampleProduct()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
			WithArgs(p.OtherEAN, p.Name, p.Brand, p.Category, p.ImageURL,
				p.IsAgeRestricted, p.IsDiscount, p.Price, p.UnitPrice,
				p.URL, p.Weight, p.EAN, "prisma").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(context.Background(), p))
	})

	t.Run("존재하지 않는 상품 갱신은 NotFound 에러", func(t *testing.T) {
		s, mock := newMockStore(t)
		p := sampleProduct()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WithArgs(p.EAN, "prisma").
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		err := s.Update(context.Background(), p)
		assert.ErrorIs(t, err, contract.ErrProductNotFound)
	})

	t.Run("동일 값 갱신(affected 0)이라도 존재하면 성공", func(t *testing.T) {
		s, mock := newMockStore(t)
		p := sampleProduct()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE products")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WithArgs(p.EAN, "prisma").
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		require.NoError(t, s.Update(context.Background(), p))
	})
}

func TestStore_Clear(t *testing.T) {
	t.Run("진행 중인 트랜잭션을 커밋한 뒤 테이블을 비운다", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))
		mock.ExpectCommit()
		mock.ExpectExec(regexp.QuoteMeta("TRUNCATE products")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		// 트랜잭션을 먼저 연다.
		_, err := s.Exists(context.Background(), "prisma", 1)
		require.NoError(t, err)

		require.NoError(t, s.Clear(context.Background()))
	})

	t.Run("트랜잭션이 없어도 동작한다", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta("TRUNCATE products")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, s.Clear(context.Background()))
	})
}

func TestStore_MatchedCodes(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("HAVING COUNT(*) = 2")).
		WillReturnRows(sqlmock.NewRows([]string{"code"}).
			AddRow(int64(4740098076711)).
			AddRow(int64(4740098076728)))

	codes, err := s.MatchedCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{4740098076711, 4740098076728}, codes)
}

func TestStore_FindByCode(t *testing.T) {
	s, mock := newMockStore(t)

	columns := []string{
		"id", "ean", "other_ean", "name", "brand", "category", "image_url",
		"is_age_restricted", "is_discount", "price", "store", "unit_price",
		"url", "weight", "price_difference_float", "price_difference_percentage", "disregard",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ean = ? OR other_ean = ?")).
		WithArgs(int64(111), int64(111)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 111, 0, "Piim Alma", "Alma", "Piimatooted", "", false, false, 1.25, "prisma", 1.25, "", "1 l", 0, 0, false).
			AddRow(2, 111, 0, "Piim Alma", "Alma", "Piimatooted", "", false, false, 1.10, "selver", 1.10, "", "1 l", 0, 0, false))

	products, err := s.FindByCode(context.Background(), 111)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, contract.StoreID("prisma"), products[0].Store)
	assert.Equal(t, 1.10, products[1].Price)
}

func TestStore_ApplyPriceDifference(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET price_difference_float = ?, price_difference_percentage = ?")).
		WithArgs(0.20, 10.5, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.ApplyPriceDifference(context.Background(), 7, 0.20, 10.5))
}

func TestStore_MarkSuperseded(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET disregard = 1 WHERE id = ?")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.MarkSuperseded(context.Background(), 9))
}

func TestStore_RebuildComparisonView(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM matches")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO matches")).
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, s.RebuildComparisonView(context.Background()))
}

func TestStore_ComparisonView(t *testing.T) {
	s, mock := newMockStore(t)

	columns := []string{
		"id", "ean", "name", "brand", "category", "image_url", "is_age_restricted",
		"is_discount", "price", "store", "unit_price", "url", "weight", "other_ean",
		"price_difference_float", "price_difference_percentage",
	}

	// 트랜잭션을 거치지 않는 읽기 경로이므로 Begin 기대값이 없다.
	mock.ExpectQuery(regexp.QuoteMeta("FROM matches")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 111, "Piim Alma", "Alma", "Piimatooted", "", false, false, 1.10, "selver", 1.10, "", "1 l", 0, 0.15, 12.8))

	products, err := s.ComparisonView(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 0.15, products[0].PriceDifference)
	assert.Equal(t, 12.8, products[0].PriceDifferencePct)
}

func TestStore_Search(t *testing.T) {
	s, mock := newMockStore(t)

	columns := []string{
		"id", "ean", "other_ean", "name", "brand", "category", "image_url",
		"is_age_restricted", "is_discount", "price", "store", "unit_price",
		"url", "weight", "price_difference_float", "price_difference_percentage", "disregard",
	}

	mock.ExpectQuery(regexp.QuoteMeta("MATCH(name, brand) AGAINST(?)")).
		WithArgs("piim", defaultSearchLimit).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 111, 0, "Piim Alma", "Alma", "Piimatooted", "", false, false, 1.25, "prisma", 1.25, "", "1 l", 0, 0, false))

	products, err := s.Search(context.Background(), "piim", 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Piim Alma", products[0].Name)
}

func TestStore_Commit(t *testing.T) {
	t.Run("트랜잭션이 없으면 아무 동작도 하지 않는다", func(t *testing.T) {
		s, _ := newMockStore(t)
		require.NoError(t, s.Commit(context.Background()))
	})

	t.Run("커밋 후 다음 쓰기는 새 트랜잭션을 연다", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products")).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		_, err := s.Exists(context.Background(), "prisma", 1)
		require.NoError(t, err)
		require.NoError(t, s.Commit(context.Background()))
		_, err = s.Exists(context.Background(), "prisma", 2)
		require.NoError(t, err)
	})
}
