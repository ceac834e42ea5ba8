package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
)

// registry 등록된 어댑터 팩토리들을 보관하는 전역 저장소
var registry = struct {
	sync.RWMutex
	factories map[string]NewSourceFunc
}{
	factories: make(map[string]NewSourceFunc),
}

// MustRegister 어댑터 팩토리를 등록소에 등록합니다.
//
// 각 어댑터 패키지의 init()에서 호출되는 것을 전제로 하며,
// 동일한 ID가 중복 등록되면 초기화 단계의 결함이므로 패닉을 발생시킵니다.
func MustRegister(id string, factory NewSourceFunc) {
	if factory == nil {
		panic(fmt.Sprintf("초기화 치명적 오류: Source('%s')의 팩토리 함수가 nil입니다", id))
	}

	registry.Lock()
	defer registry.Unlock()

	if _, exists := registry.factories[id]; exists {
		panic(fmt.Sprintf("초기화 치명적 오류: Source('%s')가 중복 등록되었습니다", id))
	}
	registry.factories[id] = factory
}

// New 상점 설정에 해당하는 어댑터 인스턴스를 생성합니다.
// 등록되지 않은 ID가 지정되면 NotFound 에러를 반환합니다.
func New(cfg config.SourceConfig) (Source, error) {
	registry.RLock()
	factory, exists := registry.factories[cfg.ID]
	registry.RUnlock()

	if !exists {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("등록되지 않은 Source입니다: '%s' (등록된 Source: %v)", cfg.ID, RegisteredIDs()))
	}
	return factory(cfg)
}

// RegisteredIDs 등록된 모든 어댑터 ID를 정렬하여 반환합니다.
func RegisteredIDs() []string {
	registry.RLock()
	defer registry.RUnlock()

	ids := make([]string, 0, len(registry.factories))
	for id := range registry.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
