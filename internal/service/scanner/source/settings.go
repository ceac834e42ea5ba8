package source

import (
	"fmt"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/pkg/maputil"
)

// Validator 설정 데이터의 유효성을 스스로 검증하는 인터페이스입니다.
type Validator interface {
	Validate() error
}

// DecodeSettings 상점 설정의 자유 형식 영역(Data)을 어댑터별 설정 구조체로 변환합니다.
// 변환 결과가 Validator 인터페이스를 구현하면 유효성 검증도 수행합니다.
func DecodeSettings[T any](cfg config.SourceConfig) (*T, error) {
	settings, err := maputil.Decode[T](cfg.Data)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("Source('%s')의 설정 변환에 실패했습니다", cfg.ID))
	}

	// T가 구조체인 경우 *T가 Validator를 구현할 수 있으므로 양쪽 모두 확인합니다.
	if v, ok := any(settings).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("Source('%s')의 설정이 유효하지 않습니다", cfg.ID))
		}
	} else if v, ok := any(*settings).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("Source('%s')의 설정이 유효하지 않습니다", cfg.ID))
		}
	}

	return settings, nil
}
