package api

import (
	"github.com/labstack/echo/v4"

	"github.com/qtchaos/hocus-pocus-v2/internal/service/api/handler"
)

// RegisterRoutes API 서비스의 라우트를 등록합니다.
//
//   - 시스템 엔드포인트: 서비스 상태 확인(/health)과 버전 정보(/version)
//   - 조회 엔드포인트: 가격 비교 결과(/api/v1/matches)와 상품 검색(/api/v1/products/search)
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)

	v1 := e.Group("/api/v1")
	v1.GET("/matches", h.MatchesHandler)
	v1.GET("/products/search", h.SearchHandler)
}
