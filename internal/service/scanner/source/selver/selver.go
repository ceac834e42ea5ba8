// Package selver Selver 상점의 상품 검색 API 응답을 정규화하는 수집 어댑터입니다.
//
// 바코드 하나당 Elasticsearch 검색 엔드포인트 하나를 호출하며,
// 검색 결과의 첫 번째 히트(_source)에서 상품 정보를 추출합니다.
package selver

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/qtchaos/hocus-pocus-v2/internal/category"
	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/source"
	"github.com/tidwall/gjson"
)

const (
	// sourceID 설정 파일에서 이 어댑터를 지정할 때 사용하는 식별자
	sourceID = "selver"

	// storeID 저장소에 기록되는 상점 이름
	storeID contract.StoreID = "Selver"

	defaultBaseURL = "https://www.selver.ee"

	defaultSearchPath = "/api/catalog/vue_storefront_catalog_et/product/_search"
)

// searchQueryTemplate 바코드(sku) 하나를 조회하는 Elasticsearch 질의 본문
const searchQueryTemplate = `{"query":{"bool":{"filter":{"bool":{"must":[{"terms":{"sku":["%s"]}},{"terms":{"visibility":[2,3,4]}},{"terms":{"status":[1]}}]}}}}}`

// searchSourceInclude 응답 크기를 줄이기 위해 조회하는 필드 목록
const searchSourceInclude = "product_main_ean,product_age_restricted,name,media_gallery.image,url_key,product_other_ean,*.is_discount,unit_price,final_*,category.name,product_volume"

func init() {
	source.MustRegister(sourceID, NewSource)
}

// settings 설정 파일의 data 영역에서 읽어오는 Selver 어댑터 전용 설정
type settings struct {
	// SearchPath 검색 엔드포인트 경로. 카탈로그 인덱스 이름이 바뀌면 여기로 교체한다.
	SearchPath string `json:"search_path"`
}

func (s settings) Validate() error {
	if s.SearchPath != "" && !strings.HasPrefix(s.SearchPath, "/") {
		return fmt.Errorf("search_path는 '/'로 시작해야 합니다: '%s'", s.SearchPath)
	}
	return nil
}

// Source Selver 수집 어댑터
type Source struct {
	baseURL    string
	searchPath string
}

var _ source.Source = (*Source)(nil)

// NewSource 상점 설정으로부터 Selver 어댑터를 생성합니다.
func NewSource(cfg config.SourceConfig) (source.Source, error) {
	s, err := source.DecodeSettings[settings](cfg)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	searchPath := s.SearchPath
	if searchPath == "" {
		searchPath = defaultSearchPath
	}
	return &Source{baseURL: baseURL, searchPath: searchPath}, nil
}

// ID 저장소에 기록되는 상점 이름을 반환합니다.
func (s *Source) ID() contract.StoreID {
	return storeID
}

// InsertOnly Selver는 Prisma 이후에 수집되므로, 이미 저장된 상품은
// 새로 수집된 값으로 갱신합니다.
func (s *Source) InsertOnly() bool {
	return false
}

// BuildRequest 바코드 하나에 대한 검색 요청을 생성합니다.
func (s *Source) BuildRequest(id string) (*http.Request, error) {
	query := url.Values{}
	query.Set("from", "0")
	query.Set("request", fmt.Sprintf(searchQueryTemplate, id))
	query.Set("size", "8")
	query.Set("sort", "")
	query.Set("_source_include", searchSourceInclude)
	query.Set("_source_exclude", "sgn,price_tax")

	req, err := http.NewRequest(http.MethodGet, s.baseURL+s.searchPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("상품(%s) 검색 요청 생성에 실패했습니다", id))
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return req, nil
}

// Parse 응답 본문을 정규화된 상품 레코드로 변환합니다.
//
// 검색 결과가 비어있거나 바코드, 상품명, 가격이 없으면 레코드를 거부합니다.
func (s *Source) Parse(body []byte) (*contract.Product, error) {
	src := gjson.GetBytes(body, "hits.hits.0._source")
	if !src.Exists() {
		return nil, source.ErrRecordRejected
	}

	ean := src.Get("product_main_ean")
	name := src.Get("name")
	price := src.Get("final_price_incl_tax")
	if !ean.Exists() || ean.Int() == 0 || !name.Exists() || !price.Exists() {
		return nil, source.ErrRecordRejected
	}

	return &contract.Product{
		EAN:             ean.Int(),
		OtherEAN:        firstOtherEAN(src.Get("product_other_ean")),
		Name:            source.NormalizeName(name.String()),
		Brand:           source.UnknownBrand, // 검색 API가 브랜드를 제공하지 않음
		Category:        category.Resolve(src.Get("category.0.name").String()),
		Price:           round2(price.Float()),
		UnitPrice:       round2(src.Get("unit_price").Float()),
		Weight:          src.Get("product_volume").String(),
		ImageURL:        s.imageURL(src),
		URL:             fmt.Sprintf("%s/%s", s.baseURL, src.Get("url_key").String()),
		Store:           storeID,
		IsDiscount:      src.Get("prices.0.is_discount").Bool(),
		IsAgeRestricted: src.Get("product_age_restricted").Bool(),
	}, nil
}

// firstOtherEAN 대체 바코드 목록에서 첫 번째 값을 추출합니다.
// 쉼표로 구분된 복수 바코드 중에서도 첫 번째만 매칭에 사용됩니다.
func firstOtherEAN(result gjson.Result) int64 {
	if !result.Exists() {
		return 0
	}

	raw := result.String()
	if idx := strings.Index(raw, ","); idx >= 0 {
		raw = raw[:idx]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// imageURL 이미지 경로가 있으면 리사이즈 프록시 URL을, 없으면 대체 이미지를 반환합니다.
func (s *Source) imageURL(src gjson.Result) string {
	image := src.Get("media_gallery.0.image")
	if !image.Exists() || image.String() == "" {
		return source.PlaceholderImageURL
	}
	return fmt.Sprintf("%s/img/800/800/resize%s", s.baseURL, image.String())
}

// round2 소수점 둘째 자리까지 반올림합니다.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
