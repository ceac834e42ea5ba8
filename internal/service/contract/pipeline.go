package contract

import "context"

// PipelineRunner 수집 파이프라인 전체(수집 -> 정규화 -> 저장 -> 매칭)를
// 1회 실행하는 인터페이스입니다. 스케줄러와 수동 실행 경로가 공유합니다.
type PipelineRunner interface {
	// Run 파이프라인을 실행하고 결과 요약을 반환합니다.
	// 동시에 두 번 실행될 수 없으며, 이미 실행 중이면 에러를 반환합니다.
	Run(ctx context.Context) (RunSummary, error)
}
