package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"

	"github.com/qtchaos/hocus-pocus-v2/internal/service/api/httputil"
)

const (
	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 60 * time.Second

	// IP 기반 요청 제한 (초당 허용 요청 수)
	defaultRateLimitPerSecond = 20

	defaultBodyLimit = "1M"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다. 패닉 복구가 가장 먼저 적용되어야
// 다른 미들웨어의 패닉도 복구할 수 있습니다.
//
//  1. Recover - 패닉 복구 및 로깅
//  2. RequestID - 요청 추적용 고유 ID 부여
//  3. HTTPLogger - 요청/응답 구조화 로깅
//  4. RateLimiter - IP 기반 요청 제한
//  5. BodyLimit - 요청 본문 크기 제한
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true

	// 네트워크 장애 시 연결이 무한히 유지되지 않도록 서버 타임아웃을 설정한다.
	e.Server.ReadTimeout = defaultReadTimeout
	e.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	e.Server.WriteTimeout = defaultWriteTimeout
	e.Server.IdleTimeout = defaultIdleTimeout

	e.HTTPErrorHandler = httputil.ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httpLogger())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(defaultRateLimitPerSecond)))
	e.Use(middleware.BodyLimit(defaultBodyLimit))

	return e
}

// httpLogger HTTP 요청과 응답 정보를 구조화된 로그로 기록하는 미들웨어를 반환합니다.
func httpLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			applog.WithComponentAndFields("api.http", applog.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"remote_ip":  v.RemoteIP,
				"request_id": v.RequestID,
			}).Info("HTTP 요청을 처리하였습니다.")
			return nil
		},
	})
}
