// Package scheduler 설정된 Cron 스케줄에 맞춰 수집 파이프라인을 주기적으로 실행합니다.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/qtchaos/hocus-pocus-v2/pkg/cronx"
	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// Scheduler 설정 파일에 정의된 Cron 스케줄에 맞춰 수집 파이프라인을 실행하는 서비스입니다.
type Scheduler struct {
	schedulerConfig config.SchedulerConfig

	cron *cron.Cron

	// runner 수집 파이프라인 실행을 요청하는 인터페이스입니다.
	runner contract.PipelineRunner

	running   bool
	runningMu sync.Mutex
}

var _ service.Service = (*Scheduler)(nil)

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(schedulerConfig config.SchedulerConfig, runner contract.PipelineRunner) *Scheduler {
	if runner == nil {
		panic("PipelineRunner는 필수입니다")
	}

	return &Scheduler{
		schedulerConfig: schedulerConfig,

		runner: runner,
	}
}

// Start 스케줄러를 시작하고 수집 파이프라인 실행 스케줄을 Cron 엔진에 등록합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Scheduler 서비스를 시작합니다.")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다.")
		return nil
	}

	// Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 엔진이 중단되지 않도록 함
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	timeSpec := s.schedulerConfig.TimeSpec
	if _, err := s.cron.AddFunc(timeSpec, func() {
		// 파이프라인 실행의 생명주기는 서비스 종료 신호와 분리한다.
		// cron.Stop()이 실행 중인 작업의 완료를 대기하므로, 실행 도중
		// 컨텍스트 취소로 강제 중단되어 커밋되지 않은 결과가 남는 것을 방지한다.
		if _, err := s.runner.Run(context.Background()); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"time_spec": timeSpec,
				"error":     err,
			}).Error("스케줄된 수집 파이프라인 실행이 실패하였습니다.")
		}
	}); err != nil {
		serviceStopWG.Done()
		s.cron = nil
		return apperrors.Wrap(err, apperrors.InvalidInput, "수집 파이프라인 실행 스케줄 등록에 실패했습니다")
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec": timeSpec,
	}).Info("Scheduler 서비스가 시작되었습니다.")

	// 종료 신호 대기
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
// Cron 엔진을 중지한 뒤 실행 중인 파이프라인의 완료를 대기합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("Scheduler 서비스를 중지합니다.")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스가 중지되었습니다.")
}
