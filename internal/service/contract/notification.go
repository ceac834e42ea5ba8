package contract

import "context"

// RunNotifier 수집 파이프라인의 실행 결과를 외부 채널로 알리는 인터페이스입니다.
type RunNotifier interface {
	// NotifyRunSummary 실행 결과 요약을 발송합니다.
	// 발송 채널이 구성되어 있지 않은 구현체는 아무 동작 없이 nil을 반환할 수 있습니다.
	NotifyRunSummary(ctx context.Context, summary RunSummary) error

	// NotifyError 실행 중 발생한 오류를 발송합니다.
	NotifyError(ctx context.Context, message string, cause error) error
}
