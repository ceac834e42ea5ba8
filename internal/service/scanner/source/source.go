// Package source 상점별 수집 어댑터의 규약과 등록소(Registry)를 제공합니다.
//
// 각 상점 어댑터는 자신의 하위 패키지에서 init()을 통해 MustRegister로 등록되며,
// 애플리케이션 진입점에서 블랭크 임포트로 활성화됩니다.
package source

import (
	"net/http"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

// Source 상점 하나의 수집 어댑터가 구현해야 하는 인터페이스입니다.
type Source interface {
	// ID 상점 식별자를 반환합니다.
	ID() contract.StoreID

	// BuildRequest 수집 대상 식별자 하나에 대한 HTTP 요청을 생성합니다.
	BuildRequest(id string) (*http.Request, error)

	// Parse 응답 본문을 정규화된 상품 레코드로 변환합니다.
	// 필수 필드가 누락된 레코드는 ErrRecordRejected로 거부됩니다.
	Parse(body []byte) (*contract.Product, error)

	// InsertOnly 참이면 이미 저장된 상품을 갱신하지 않고 건너뜁니다.
	InsertOnly() bool
}

// NewSourceFunc 상점 설정으로부터 어댑터 인스턴스를 생성하는 팩토리 함수입니다.
type NewSourceFunc func(cfg config.SourceConfig) (Source, error)
