package contract

import (
	"context"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
)

var (
	// ErrProductAlreadyExists 동일한 상점/바코드의 상품이 이미 저장되어 있을 때 반환하는 에러입니다.
	ErrProductAlreadyExists = apperrors.New(apperrors.Conflict, "동일한 상점의 동일 바코드 상품이 이미 존재합니다")

	// ErrProductNotFound 갱신 대상 상품이 저장소에 존재하지 않을 때 반환하는 에러입니다.
	ErrProductNotFound = apperrors.New(apperrors.NotFound, "갱신 대상 상품이 존재하지 않습니다")
)

// ProductWriter 수집 파이프라인이 상품 레코드를 기록할 때 사용하는 인터페이스입니다.
type ProductWriter interface {
	// Exists 지정된 상점에 해당 바코드의 상품이 이미 저장되어 있는지 확인합니다.
	Exists(ctx context.Context, store StoreID, ean int64) (bool, error)

	// Insert 새로운 상품 레코드를 저장합니다.
	// 동일 상점/바코드의 상품이 이미 존재하면 ErrProductAlreadyExists를 반환합니다.
	Insert(ctx context.Context, p *Product) error

	// Update 기존 상품 레코드를 새로 수집된 값으로 갱신합니다.
	// 갱신 시 이전 실행에서 기록된 비교 결과(Superseded)는 초기화됩니다.
	// 대상이 존재하지 않으면 ErrProductNotFound를 반환합니다.
	Update(ctx context.Context, p *Product) error

	// Clear 저장된 모든 상품 레코드를 삭제합니다. 수집 실행 시작 시 호출됩니다.
	Clear(ctx context.Context) error
}

// MatchStore 매칭 엔진이 상점 간 동일 상품을 찾고 비교 결과를 기록할 때 사용하는 인터페이스입니다.
type MatchStore interface {
	// MatchedCodes 서로 다른 두 상점에서 정확히 한 번씩 나타나는 바코드 목록을 반환합니다.
	// 대표 바코드와 대체 바코드를 모두 검색 대상으로 합니다.
	MatchedCodes(ctx context.Context) ([]int64, error)

	// FindByCode 대표 또는 대체 바코드가 일치하는 상품들을 조회합니다.
	FindByCode(ctx context.Context, code int64) ([]Product, error)

	// ApplyPriceDifference 매칭된 쌍 중 더 싼 쪽(대표 레코드)에 가격 차이(절대액, 비율)를 기록합니다.
	ApplyPriceDifference(ctx context.Context, productID int64, amount, percent float64) error

	// MarkSuperseded 같은 상품의 더 싼 레코드가 존재함을 표시하여 비교 결과에서 제외합니다.
	MarkSuperseded(ctx context.Context, productID int64) error

	// RebuildComparisonView 비교 결과 테이블을 비운 뒤, 제외되지 않은(superseded=false)
	// 모든 상품으로 다시 채웁니다.
	RebuildComparisonView(ctx context.Context) error
}

// ProductReader 조회 API가 비교 결과를 읽을 때 사용하는 인터페이스입니다.
type ProductReader interface {
	// ComparisonView 비교 결과 테이블의 전체 내용을 반환합니다.
	ComparisonView(ctx context.Context) ([]Product, error)

	// Search 상품명과 브랜드를 대상으로 유사도 검색을 수행합니다.
	// limit이 0 이하이면 구현체의 기본 결과 수 제한이 적용됩니다.
	Search(ctx context.Context, query string, limit int) ([]Product, error)
}

// CommitPacer 저장소 변경 사항의 커밋 시점을 제어하는 인터페이스입니다.
//
// 수집 파이프라인은 레코드를 하나 처리할 때마다 Pace를 호출하고,
// 실제 커밋 수행 여부는 구현체의 정책(시간 주기, 건수 임계치)이 결정합니다.
type CommitPacer interface {
	// Pace 누적 처리 건수를 1 증가시키고, 정책에 따라 필요하면 커밋을 수행합니다.
	// useCountThreshold가 참이면 시간 주기에 더해 건수 임계치도 커밋 조건으로 사용합니다.
	Pace(ctx context.Context, useCountThreshold bool) (committed bool, err error)

	// Flush 누적된 변경 사항을 즉시 커밋합니다.
	Flush(ctx context.Context) error

	// Reset 누적 처리 건수와 시간 주기의 기준 시점을 초기화합니다.
	// 수집 단계가 바뀔 때 호출됩니다.
	Reset()
}
