// Package store MySQL 기반의 상품 저장소를 제공합니다.
//
// 수집 파이프라인의 쓰기 작업은 하나의 명시적 트랜잭션 위에서 수행되며,
// 커밋 시점은 Committer의 정책(시간 주기, 건수 임계치)이 결정합니다.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"
)

// component 저장소 계층의 로깅용 컴포넌트 이름
const component = "store"

const (
	// 커넥션 풀 설정
	// 파이프라인은 단일 논리 연결을 가정하므로 쓰기 경로의 동시성은 1이지만,
	// 조회 API가 같은 풀을 공유하므로 여유분을 둡니다.
	maxOpenConns    = 5
	maxIdleConns    = 2
	connMaxLifetime = 30 * time.Minute

	pingTimeout = 5 * time.Second
)

// 저장소 스키마. 실행 시점에 존재하지 않으면 생성됩니다.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT NOT NULL AUTO_INCREMENT,
		ean BIGINT NOT NULL,
		other_ean BIGINT NOT NULL DEFAULT 0,
		name VARCHAR(255) NOT NULL,
		brand VARCHAR(128) NOT NULL DEFAULT 'N/A',
		category VARCHAR(128) NOT NULL DEFAULT 'N/A',
		image_url VARCHAR(512) NOT NULL DEFAULT '',
		is_age_restricted TINYINT(1) NOT NULL DEFAULT 0,
		is_discount TINYINT(1) NOT NULL DEFAULT 0,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		store VARCHAR(32) NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL DEFAULT 0,
		url VARCHAR(512) NOT NULL DEFAULT '',
		weight VARCHAR(64) NOT NULL DEFAULT '',
		price_difference_float DECIMAL(10,2) NOT NULL DEFAULT 0,
		price_difference_percentage DECIMAL(10,2) NOT NULL DEFAULT 0,
		disregard TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		KEY idx_store_ean (store, ean),
		KEY idx_other_ean (other_ean),
		FULLTEXT KEY ftx_name_brand (name, brand)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS matches (
		id BIGINT NOT NULL,
		ean BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		brand VARCHAR(128) NOT NULL DEFAULT 'N/A',
		category VARCHAR(128) NOT NULL DEFAULT 'N/A',
		image_url VARCHAR(512) NOT NULL DEFAULT '',
		is_age_restricted TINYINT(1) NOT NULL DEFAULT 0,
		is_discount TINYINT(1) NOT NULL DEFAULT 0,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		store VARCHAR(32) NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL DEFAULT 0,
		url VARCHAR(512) NOT NULL DEFAULT '',
		weight VARCHAR(64) NOT NULL DEFAULT '',
		other_ean BIGINT NOT NULL DEFAULT 0,
		price_difference_float DECIMAL(10,2) NOT NULL DEFAULT 0,
		price_difference_percentage DECIMAL(10,2) NOT NULL DEFAULT 0,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Open 데이터베이스에 연결하고 스키마를 준비한 Store를 반환합니다.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "데이터베이스 연결 정보 초기화에 실패했습니다")
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "데이터베이스에 연결할 수 없습니다")
	}

	s := New(db)
	if err := s.bootstrap(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"host":     cfg.Host,
		"database": cfg.Name,
	}).Info("데이터베이스 연결 완료")

	return s, nil
}

// bootstrap 필요한 테이블이 없으면 생성합니다.
func (s *Store) bootstrap(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, apperrors.System, "저장소 스키마 초기화에 실패했습니다")
		}
	}
	return nil
}
