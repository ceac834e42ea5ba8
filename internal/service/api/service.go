// Package api 가격 비교 조회 API 서버의 생명주기를 관리합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	"github.com/qtchaos/hocus-pocus-v2/internal/pkg/version"
	"github.com/qtchaos/hocus-pocus-v2/internal/service"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/api/handler"
)

const (
	component = "api.service"

	// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
	shutdownTimeout = 5 * time.Second
)

// Service 조회 API 서버를 구동하는 서비스입니다.
//
// Echo 기반 HTTP 서버의 시작과 종료를 담당하며, 고루틴으로 실행되어
// context를 통해 종료 신호를 받습니다.
type Service struct {
	appConfig *config.AppConfig

	store handler.ProductStore

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

var _ service.Service = (*Service)(nil)

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, store handler.ProductStore, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("appConfig는 필수 의존성입니다")
	}
	if store == nil {
		panic("store는 필수 의존성입니다")
	}

	return &Service{
		appConfig: appConfig,

		store: store,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다. 실제 서버는 고루틴에서 실행되며 이 함수는 즉시 반환됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("조회 API 서비스를 시작합니다.")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("조회 API 서비스가 이미 시작되었습니다.")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	return nil
}

// runServiceLoop 서버 설정, HTTP 서버 시작, 종료 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

func (s *Service) setupServer() *echo.Echo {
	e := NewHTTPServer(HTTPServerConfig{
		Debug: s.appConfig.Debug,
	})

	RegisterRoutes(e, handler.NewHandler(s.store, s.buildInfo))

	return e
}

// startHTTPServer HTTP 서버를 시작합니다. 서버가 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.WS.ListenPort
	applog.WithComponentAndFields(component, applog.Fields{
		"port": port,
	}).Info("조회 API HTTP 서버를 시작합니다.")

	err := e.Start(fmt.Sprintf(":%d", port))

	if err == nil || errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(component).Info("조회 API HTTP 서버가 중지되었습니다.")
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"port":  port,
		"error": err,
	}).Error("조회 API HTTP 서버가 예기치 않게 종료되었습니다.")
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(component).Info("조회 API 서비스를 중지합니다.")
	case <-httpServerDone:
		// 포트 바인딩 실패 등으로 서버가 이미 종료된 경우
		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("조회 API HTTP 서버의 Graceful Shutdown이 실패하였습니다.")
	}

	<-httpServerDone

	s.cleanup()

	applog.WithComponent(component).Info("조회 API 서비스가 중지되었습니다.")
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	s.running = false
}
