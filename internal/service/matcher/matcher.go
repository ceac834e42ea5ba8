// Package matcher 서로 다른 상점에서 수집된 동일 상품을 찾아
// 가격 차이를 기록하는 매칭 엔진입니다.
//
// 대표 바코드와 대체 바코드가 서로 다른 두 상점에서 정확히 한 번씩
// 나타나는 코드를 매칭 후보로 보고, 매칭된 쌍 중 더 싼 레코드에
// 가격 차이를 기록한 뒤 비싼 레코드를 비교 결과에서 제외합니다.
package matcher

import (
	"context"
	"math"

	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

const component = "matcher"

// Matcher 매칭 엔진
type Matcher struct {
	store contract.MatchStore
	pacer contract.CommitPacer
}

// New 매칭 엔진을 생성합니다.
func New(store contract.MatchStore, pacer contract.CommitPacer) *Matcher {
	return &Matcher{
		store: store,
		pacer: pacer,
	}
}

// Run 매칭 후보 전체를 처리하고 매칭된 쌍의 수를 반환합니다.
//
// 후보 코드로 조회된 상품이 정확히 2건이 아니면 해당 코드를 건너뜁니다.
// 수집 직후의 저장소를 전제로 하므로 수집과 같은 트랜잭션에서 수행되며,
// 모든 쌍을 처리한 뒤 비교 결과 테이블을 다시 만듭니다.
func (m *Matcher) Run(ctx context.Context) (int, error) {
	logger := applog.WithComponent(component)

	codes, err := m.store.MatchedCodes(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.Internal, "매칭 후보 코드 조회에 실패했습니다")
	}

	logger.Infof("상점 간 상품 매칭을 시작합니다. (후보:%d건)", len(codes))

	matched := 0
	for _, code := range codes {
		products, err := m.store.FindByCode(ctx, code)
		if err != nil {
			return matched, apperrors.Wrap(err, apperrors.Internal, "매칭 후보 상품 조회에 실패했습니다")
		}
		// 수집 중 레코드가 변한 경우이며 이 실행에서는 매칭하지 않는다.
		if len(products) != 2 {
			continue
		}

		canonical, superseded := orderPair(products[0], products[1])

		amount, percent := priceDifference(canonical.Price, superseded.Price)
		if err := m.store.ApplyPriceDifference(ctx, canonical.ID, amount, percent); err != nil {
			return matched, err
		}
		if err := m.store.MarkSuperseded(ctx, superseded.ID); err != nil {
			return matched, err
		}
		matched++

		if _, err := m.pacer.Pace(ctx, true); err != nil {
			return matched, err
		}
	}

	if err := m.pacer.Flush(ctx); err != nil {
		return matched, err
	}

	if err := m.store.RebuildComparisonView(ctx); err != nil {
		return matched, apperrors.Wrap(err, apperrors.Internal, "비교 결과 테이블 재구성에 실패했습니다")
	}
	if err := m.pacer.Flush(ctx); err != nil {
		return matched, err
	}

	logger.Infof("상점 간 상품 매칭이 완료되었습니다. (매칭:%d쌍)", matched)

	return matched, nil
}

// orderPair 매칭된 쌍을 (대표, 제외) 순서로 반환합니다.
// 더 싼 쪽이 대표가 되며, 가격이 같으면 뒤의 레코드가 대표가 됩니다.
func orderPair(a, b contract.Product) (canonical, superseded contract.Product) {
	if a.Price < b.Price {
		return a, b
	}
	return b, a
}

// priceDifference 가격 차이의 절대액과 평균 가격 대비 비율(%)을 계산합니다.
// canonical <= superseded를 전제로 하므로 두 값 모두 0 이상입니다.
func priceDifference(canonical, superseded float64) (amount, percent float64) {
	amount = math.Round((superseded-canonical)*100) / 100

	mean := (superseded + canonical) / 2
	if mean == 0 {
		return amount, 0
	}
	percent = math.Round((superseded-canonical)/mean*1000) / 10
	return amount, percent
}
