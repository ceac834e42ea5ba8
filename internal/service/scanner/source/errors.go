package source

import (
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
)

// ErrRecordRejected 필수 필드 누락 등으로 레코드가 정규화에서 거부되었을 때 반환하는 에러입니다.
// 거부는 상품 단위 이벤트이며, 수집 배치 전체를 실패시키지 않습니다.
var ErrRecordRejected = apperrors.New(apperrors.ParsingFailed, "필수 필드가 누락되어 레코드가 거부되었습니다")
