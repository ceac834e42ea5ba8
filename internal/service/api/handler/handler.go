// Package handler 가격 비교 조회 API의 엔드포인트 핸들러를 제공합니다.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qtchaos/hocus-pocus-v2/internal/pkg/version"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/api/httputil"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

const (
	// maxSearchCount 유사도 검색의 최대 결과 수 제한
	maxSearchCount = 50
)

// ProductStore 조회 API가 사용하는 저장소 인터페이스
type ProductStore interface {
	contract.ProductReader

	// Ping 저장소 연결 상태를 확인합니다.
	Ping(ctx context.Context) error
}

// Handler 조회 API 엔드포인트 핸들러
type Handler struct {
	store ProductStore

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(store ProductStore, buildInfo version.Info) *Handler {
	if store == nil {
		panic("store는 필수 의존성입니다")
	}

	return &Handler{
		store: store,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// healthResponse 헬스체크 응답 형식
type healthResponse struct {
	Status   string           `json:"status"`
	Uptime   int64            `json:"uptime"`
	Database dependencyStatus `json:"database"`
}

type dependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheckHandler 서버와 데이터베이스의 상태를 반환합니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	resp := healthResponse{
		Status: "healthy",
		Uptime: int64(time.Since(h.serverStartTime).Seconds()),
		Database: dependencyStatus{
			Status: "healthy",
		},
	}

	if err := h.store.Ping(c.Request().Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Database = dependencyStatus{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// VersionHandler 빌드 버전 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo.ToMap())
}

// productResponse 조회 API가 반환하는 상품 레코드 형식
type productResponse struct {
	EAN       int64   `json:"ean"`
	OtherEAN  int64   `json:"other_ean,omitempty"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	UnitPrice float64 `json:"unit_price"`
	Weight    string  `json:"weight"`
	ImageURL  string  `json:"image_url"`
	URL       string  `json:"url"`
	Store     string  `json:"store"`

	IsDiscount      bool `json:"is_discount"`
	IsAgeRestricted bool `json:"is_age_restricted"`

	PriceDifference    float64 `json:"price_difference"`
	PriceDifferencePct float64 `json:"price_difference_percentage"`
}

func toProductResponses(products []contract.Product) []productResponse {
	responses := make([]productResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, productResponse{
			EAN:                p.EAN,
			OtherEAN:           p.OtherEAN,
			Name:               p.Name,
			Brand:              p.Brand,
			Category:           p.Category,
			Price:              p.Price,
			UnitPrice:          p.UnitPrice,
			Weight:             p.Weight,
			ImageURL:           p.ImageURL,
			URL:                p.URL,
			Store:              string(p.Store),
			IsDiscount:         p.IsDiscount,
			IsAgeRestricted:    p.IsAgeRestricted,
			PriceDifference:    p.PriceDifference,
			PriceDifferencePct: p.PriceDifferencePct,
		})
	}
	return responses
}

// MatchesHandler 상점 간 가격 비교 결과 전체를 반환합니다.
func (h *Handler) MatchesHandler(c echo.Context) error {
	products, err := h.store.ComparisonView(c.Request().Context())
	if err != nil {
		return httputil.NewInternalServerError("가격 비교 결과 조회에 실패하였습니다.")
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}

// SearchHandler 상품명과 브랜드를 대상으로 유사도 검색을 수행합니다.
//
// 쿼리 파라미터:
//   - q: 검색어 (필수)
//   - count: 최대 결과 수 (선택, 기본값은 저장소의 기본 제한)
func (h *Handler) SearchHandler(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return httputil.NewBadRequestError("검색어(q)가 지정되지 않았습니다.")
	}

	count := 0
	if raw := c.QueryParam("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return httputil.NewBadRequestError("결과 수(count)는 1 이상의 정수이어야 합니다.")
		}
		count = parsed
		if count > maxSearchCount {
			count = maxSearchCount
		}
	}

	products, err := h.store.Search(c.Request().Context(), query, count)
	if err != nil {
		return httputil.NewInternalServerError("상품 검색에 실패하였습니다.")
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}
