package store

import (
	"context"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

// defaultSearchLimit 유사도 검색의 기본 결과 수 제한
const defaultSearchLimit = 10

// matchedCodesQuery 대표/대체 바코드를 합친 멀티셋에서 정확히 두 번 나타나는 코드를 찾습니다.
// 한 번만 나타나는 코드(매칭 상대 없음)와 세 번 이상 나타나는 코드(모호함)는 제외됩니다.
const matchedCodesQuery = `SELECT code FROM (
	SELECT ean AS code FROM products
	UNION ALL
	SELECT other_ean AS code FROM products WHERE other_ean != 0
) AS codes
GROUP BY code
HAVING COUNT(*) = 2`

const rebuildViewQuery = `INSERT INTO matches
SELECT id, ean, name, brand, category, image_url, is_age_restricted, is_discount,
	price, store, unit_price, url, weight, other_ean,
	price_difference_float, price_difference_percentage
FROM products
WHERE disregard = 0`

// MatchedCodes 서로 다른 두 레코드에서 정확히 한 번씩 나타나는 바코드 목록을 반환합니다.
func (s *Store) MatchedCodes(ctx context.Context) ([]int64, error) {
	tx, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, matchedCodesQuery)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "매칭 대상 바코드 조회에 실패했습니다")
	}
	defer rows.Close()

	var codes []int64
	for rows.Next() {
		var code int64
		if err := rows.Scan(&code); err != nil {
			return nil, apperrors.Wrap(err, apperrors.System, "매칭 대상 바코드 변환에 실패했습니다")
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "매칭 대상 바코드 순회 중 오류가 발생했습니다")
	}
	return codes, nil
}

// FindByCode 대표 또는 대체 바코드가 일치하는 상품들을 조회합니다.
func (s *Store) FindByCode(ctx context.Context, code int64) ([]contract.Product, error) {
	tx, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE ean = ? OR other_ean = ?", code, code)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "바코드 기준 상품 조회에 실패했습니다")
	}
	return collectProducts(rows)
}

// ApplyPriceDifference 매칭된 쌍 중 더 싼 쪽(대표 레코드)에 가격 차이를 기록합니다.
func (s *Store) ApplyPriceDifference(ctx context.Context, productID int64, amount, percent float64) error {
	tx, err := s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE products SET price_difference_float = ?, price_difference_percentage = ? WHERE id = ?",
		amount, percent, productID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "가격 차이 기록에 실패했습니다")
	}
	return nil
}

// MarkSuperseded 같은 상품의 더 싼 레코드가 존재함을 표시하여 비교 결과에서 제외합니다.
func (s *Store) MarkSuperseded(ctx context.Context, productID int64) error {
	tx, err := s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "UPDATE products SET disregard = 1 WHERE id = ?", productID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "비교 제외 표시에 실패했습니다")
	}
	return nil
}

// RebuildComparisonView 비교 결과 테이블을 비운 뒤 현재 매칭 상태로 다시 채웁니다.
func (s *Store) RebuildComparisonView(ctx context.Context) error {
	tx, err := s.conn(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM matches"); err != nil {
		return apperrors.Wrap(err, apperrors.System, "비교 결과 테이블 초기화에 실패했습니다")
	}
	if _, err := tx.ExecContext(ctx, rebuildViewQuery); err != nil {
		return apperrors.Wrap(err, apperrors.System, "비교 결과 테이블 재구성에 실패했습니다")
	}
	return nil
}

// matchColumns matches 테이블의 컬럼 순서 (products와 다름에 주의)
const matchColumns = `id, ean, name, brand, category, image_url, is_age_restricted,
	is_discount, price, store, unit_price, url, weight, other_ean,
	price_difference_float, price_difference_percentage`

// scanMatch matches 테이블의 단일 행을 Product로 변환합니다.
func scanMatch(scan func(dest ...any) error) (contract.Product, error) {
	var p contract.Product
	var store string
	err := scan(
		&p.ID, &p.EAN, &p.Name, &p.Brand, &p.Category, &p.ImageURL,
		&p.IsAgeRestricted, &p.IsDiscount, &p.Price, &store, &p.UnitPrice,
		&p.URL, &p.Weight, &p.OtherEAN, &p.PriceDifference, &p.PriceDifferencePct,
	)
	if err != nil {
		return contract.Product{}, err
	}
	p.Store = contract.StoreID(store)
	return p, nil
}

// ComparisonView 비교 결과 테이블의 전체 내용을 반환합니다.
// 조회 API에서 사용하며, 커밋된 데이터만 읽습니다.
func (s *Store) ComparisonView(ctx context.Context) ([]contract.Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+matchColumns+" FROM matches")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "비교 결과 조회에 실패했습니다")
	}
	defer rows.Close()

	var products []contract.Product
	for rows.Next() {
		p, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.System, "비교 결과 변환에 실패했습니다")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "비교 결과 순회 중 오류가 발생했습니다")
	}
	return products, nil
}

// Search 상품명과 브랜드를 대상으로 전문(Full-Text) 유사도 검색을 수행합니다.
// 조회 API에서 사용하며, 커밋된 데이터만 읽습니다.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]contract.Product, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE MATCH(name, brand) AGAINST(?) LIMIT ?",
		query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "상품 검색에 실패했습니다")
	}
	return collectProducts(rows)
}
