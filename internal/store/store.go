package store

import (
	"context"
	"database/sql"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

// 인터페이스 구현 여부 컴파일 타임 검증
var (
	_ contract.ProductWriter = (*Store)(nil)
	_ contract.MatchStore    = (*Store)(nil)
	_ contract.ProductReader = (*Store)(nil)
)

// Store 상품 레코드의 영속화를 담당하는 MySQL 저장소입니다.
//
// 수집 파이프라인의 쓰기와 매칭 조회는 모두 단일 트랜잭션(tx) 위에서 수행되어,
// 아직 커밋되지 않은 쓰기 결과를 매칭 엔진이 바로 읽을 수 있습니다.
// 반면 조회 API가 사용하는 읽기 경로(ComparisonView, Search)는
// 트랜잭션을 거치지 않고 커밋된 데이터만 읽습니다.
//
// Store는 동시 사용을 지원하지 않습니다. 파이프라인 실행 중에는
// 단일 고루틴만 쓰기 경로를 사용한다고 가정합니다.
type Store struct {
	db *sql.DB
	tx *sql.Tx
}

// New 이미 열린 데이터베이스 핸들로 Store를 생성합니다.
// 스키마 준비까지 포함한 생성은 Open을 사용하세요.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close 진행 중인 트랜잭션을 롤백하고 데이터베이스 연결을 닫습니다.
// 커밋되지 않은 변경 사항은 유실됩니다.
func (s *Store) Close() error {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}

// Ping 데이터베이스 연결 상태를 확인합니다. 헬스체크에서 사용합니다.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "데이터베이스 응답이 없습니다")
	}
	return nil
}

// conn 현재 트랜잭션을 반환합니다. 트랜잭션이 없으면 새로 시작합니다.
func (s *Store) conn(ctx context.Context) (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "트랜잭션 시작에 실패했습니다")
	}
	s.tx = tx
	return tx, nil
}

// Commit 진행 중인 트랜잭션을 커밋합니다. 트랜잭션이 없으면 아무 동작도 하지 않습니다.
// 커밋 정책 판단은 Committer가 담당하며, Store는 실제 커밋 동작만 수행합니다.
func (s *Store) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}

	if err := s.tx.Commit(); err != nil {
		s.tx = nil
		return apperrors.Wrap(err, apperrors.System, "트랜잭션 커밋에 실패했습니다")
	}
	s.tx = nil
	return nil
}

const insertQuery = `INSERT INTO products (
	ean, other_ean, name, brand, category, image_url, is_age_restricted,
	is_discount, price, store, unit_price, url, weight
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateQuery = `UPDATE products
	SET other_ean = ?, name = ?, brand = ?, category = ?, image_url = ?,
	is_age_restricted = ?, is_discount = ?, price = ?, unit_price = ?,
	url = ?, weight = ?, disregard = 0
	WHERE ean = ? AND store = ?`

// Exists 지정된 상점에 해당 바코드의 상품이 이미 저장되어 있는지 확인합니다.
func (s *Store) Exists(ctx context.Context, store contract.StoreID, ean int64) (bool, error) {
	tx, err := s.conn(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM products WHERE ean = ? AND store = ? LIMIT 1", ean, string(store)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.System, "상품 존재 여부 조회에 실패했습니다")
	}
	return true, nil
}

// Insert 새로운 상품 레코드를 저장합니다.
func (s *Store) Insert(ctx context.Context, p *contract.Product) error {
	exists, err := s.Exists(ctx, p.Store, p.EAN)
	if err != nil {
		return err
	}
	if exists {
		return contract.ErrProductAlreadyExists
	}

	tx, err := s.conn(ctx)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, insertQuery,
		p.EAN, p.OtherEAN, p.Name, p.Brand, p.Category, p.ImageURL,
		p.IsAgeRestricted, p.IsDiscount, p.Price, string(p.Store),
		p.UnitPrice, p.URL, p.Weight,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 저장에 실패했습니다")
	}

	if id, err := result.LastInsertId(); err == nil {
		p.ID = id
	}
	return nil
}

// Update 기존 상품 레코드를 새로 수집된 값으로 갱신하고 비교 제외 상태를 초기화합니다.
func (s *Store) Update(ctx context.Context, p *contract.Product) error {
	tx, err := s.conn(ctx)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, updateQuery,
		p.OtherEAN, p.Name, p.Brand, p.Category, p.ImageURL,
		p.IsAgeRestricted, p.IsDiscount, p.Price, p.UnitPrice,
		p.URL, p.Weight,
		p.EAN, string(p.Store),
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 갱신에 실패했습니다")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 갱신 결과 확인에 실패했습니다")
	}
	if affected == 0 {
		// 동일한 값으로의 갱신도 affected 0을 반환할 수 있으므로 실제 존재 여부로 재확인한다.
		exists, err := s.Exists(ctx, p.Store, p.EAN)
		if err != nil {
			return err
		}
		if !exists {
			return contract.ErrProductNotFound
		}
	}
	return nil
}

// Clear 저장된 모든 상품 레코드를 삭제합니다.
//
// TRUNCATE는 MySQL에서 암묵적 커밋을 유발하므로 트랜잭션 밖에서 수행하며,
// 진행 중이던 트랜잭션이 있다면 먼저 커밋합니다.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.Commit(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "TRUNCATE products"); err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 테이블 초기화에 실패했습니다")
	}
	return nil
}

// productColumns 조회 쿼리에서 사용하는 products 테이블 전체 컬럼
const productColumns = `id, ean, other_ean, name, brand, category, image_url,
	is_age_restricted, is_discount, price, store, unit_price, url, weight,
	price_difference_float, price_difference_percentage, disregard`

// scanProduct 단일 행을 Product로 변환합니다.
func scanProduct(scan func(dest ...any) error) (contract.Product, error) {
	var p contract.Product
	var store string
	err := scan(
		&p.ID, &p.EAN, &p.OtherEAN, &p.Name, &p.Brand, &p.Category, &p.ImageURL,
		&p.IsAgeRestricted, &p.IsDiscount, &p.Price, &store, &p.UnitPrice,
		&p.URL, &p.Weight, &p.PriceDifference, &p.PriceDifferencePct, &p.Superseded,
	)
	if err != nil {
		return contract.Product{}, err
	}
	p.Store = contract.StoreID(store)
	return p, nil
}

// collectProducts 결과 집합 전체를 Product 슬라이스로 변환합니다.
func collectProducts(rows *sql.Rows) ([]contract.Product, error) {
	defer rows.Close()

	var products []contract.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.System, "상품 조회 결과 변환에 실패했습니다")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "상품 조회 결과 순회 중 오류가 발생했습니다")
	}
	return products, nil
}
