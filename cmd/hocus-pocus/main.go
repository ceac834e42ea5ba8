package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	"github.com/qtchaos/hocus-pocus-v2/internal/pkg/version"
	"github.com/qtchaos/hocus-pocus-v2/internal/service"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/api"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/notification"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/pipeline"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/fetcher"
	_ "github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/source/prisma"
	_ "github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/source/selver"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scheduler"
	"github.com/qtchaos/hocus-pocus-v2/internal/store"
)

const (
	banner = `
  _   _                             ____
 | | | |  ___    ___  _   _  ___   |  _ \  ___    ___  _   _  ___
 | |_| | / _ \  / __|| | | |/ __|  | |_) |/ _ \  / __|| | | |/ __|
 |  _  || (_) || (__ | |_| |\__ \  |  __/| (_) || (__ | |_| |\__ \
 |_| |_| \___/  \___| \__,_||___/  |_|    \___/  \___| \__,_||___/
                                                  %s
--------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentConfig(config.AppName)
	} else {
		logOpts = applog.NewProductionConfig(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 권장 설정 준수 여부 진단
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 4. 데이터베이스 연결 및 스키마 준비
	productStore, err := store.Open(appConfig.Database)
	if err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Fatal("데이터베이스 연결 실패로 프로그램을 종료합니다")
	}
	defer productStore.Close()

	// 5. 수집 파이프라인 구성
	committer := store.NewCommitter(productStore,
		appConfig.Commit.IntervalDuration(),
		appConfig.Commit.MatchThreshold,
		appConfig.Commit.ProgressEvery)

	notifier := newRunNotifier(appConfig)

	pipelineRunner, err := pipeline.New(appConfig, productStore, productStore, committer,
		fetcher.NewHTTPFetcher(appConfig.Fetch.TimeoutDuration()), notifier)
	if err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Fatal("수집 파이프라인 구성 실패로 프로그램을 종료합니다")
	}

	// 스케줄러가 비활성화된 경우에는 파이프라인을 1회 실행하고 종료한다.
	if !appConfig.Scheduler.Runnable {
		applog.WithComponent("main").Info("스케줄러가 비활성화되어 수집 파이프라인을 1회 실행합니다.")

		if _, err := pipelineRunner.Run(context.Background()); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Fatal("수집 파이프라인 실행 실패로 프로그램을 종료합니다")
		}
		return
	}

	// 6. 서비스 생성 및 시작
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	services := []service.Service{
		scheduler.NewService(appConfig.Scheduler, pipelineRunner),
		api.NewService(appConfig, productStore, buildInfo),
	}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// 종료 시그널 대기
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()
	serviceStopWG.Wait()
}

// newRunNotifier 텔레그램 설정이 있으면 텔레그램 발송기를, 없으면 로그 발송기를 생성합니다.
func newRunNotifier(appConfig *config.AppConfig) contract.RunNotifier {
	if !appConfig.Notifier.Telegram.Enabled() {
		return notification.NopNotifier{}
	}

	notifier, err := notification.NewTelegramNotifier(appConfig.Notifier.Telegram, appConfig.Debug)
	if err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Fatal("텔레그램 발송기 초기화 실패로 프로그램을 종료합니다")
	}
	return notifier
}
