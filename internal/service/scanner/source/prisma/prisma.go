// Package prisma Prisma 상점의 상품 API 응답을 정규화하는 수집 어댑터입니다.
//
// 상품 ID 하나당 엔드포인트("/entry/{id}?main_view=1") 하나를 호출하며,
// 응답의 data 객체에서 상품 정보를 추출합니다.
package prisma

import (
	"fmt"
	"net/http"
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
	sourceID = "prisma"

	// storeID 저장소에 기록되는 상점 이름
	storeID contract.StoreID = "Prisma"

	defaultBaseURL = "https://www.prismamarket.ee"

	// defaultImageBaseURL 상품 이미지 저장소 (image_guid로 경로 구성)
	defaultImageBaseURL = "https://s3-eu-west-1.amazonaws.com/balticsimages/images/320x480"
)

func init() {
	source.MustRegister(sourceID, NewSource)
}

// settings 설정 파일의 data 영역에서 읽어오는 Prisma 어댑터 전용 설정
type settings struct {
	// ImageBaseURL 상품 이미지 저장소 주소 (미지정 시 기본 저장소 사용)
	ImageBaseURL string `json:"image_base_url"`
}

// Source Prisma 수집 어댑터
type Source struct {
	baseURL      string
	imageBaseURL string
}

var _ source.Source = (*Source)(nil)

// NewSource 상점 설정으로부터 Prisma 어댑터를 생성합니다.
func NewSource(cfg config.SourceConfig) (source.Source, error) {
	s, err := source.DecodeSettings[settings](cfg)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBaseURL := strings.TrimRight(s.ImageBaseURL, "/")
	if imageBaseURL == "" {
		imageBaseURL = defaultImageBaseURL
	}
	return &Source{baseURL: baseURL, imageBaseURL: imageBaseURL}, nil
}

// ID 저장소에 기록되는 상점 이름을 반환합니다.
func (s *Source) ID() contract.StoreID {
	return storeID
}

// InsertOnly Prisma는 실행 시작 시 저장소가 비워지는 첫 번째 수집 대상이므로
// 이미 존재하는 상품은 건너뜁니다.
func (s *Source) InsertOnly() bool {
	return true
}

// BuildRequest 상품 ID 하나에 대한 조회 요청을 생성합니다.
func (s *Source) BuildRequest(id string) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/entry/%s?main_view=1", s.baseURL, id), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("상품(%s) 조회 요청 생성에 실패했습니다", id))
	}
	// 이 헤더가 없으면 HTML 페이지가 반환된다.
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return req, nil
}

// Parse 응답 본문을 정규화된 상품 레코드로 변환합니다.
//
// 바코드, 상품명, 가격은 필수 필드이며 하나라도 없으면 레코드를 거부합니다.
// 그 외 필드는 누락 시 명시적인 기본값으로 대체됩니다.
func (s *Source) Parse(body []byte) (*contract.Product, error) {
	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, source.ErrRecordRejected
	}

	ean := data.Get("ean")
	name := data.Get("name")
	price := data.Get("price")
	if !ean.Exists() || ean.Int() == 0 || !name.Exists() || !price.Exists() {
		return nil, source.ErrRecordRejected
	}

	return &contract.Product{
		EAN:             ean.Int(),
		Name:            source.NormalizeName(name.String()),
		Brand:           source.NormalizeBrand(data.Get("subname").String()),
		Category:        category.Resolve(data.Get("aisle").String()),
		Price:           price.Float(),
		UnitPrice:       data.Get("comp_price").Float(),
		Weight:          fmt.Sprintf("%s %s", data.Get("quantity").String(), data.Get("comp_unit").String()),
		ImageURL:        s.imageURL(data),
		URL:             fmt.Sprintf("%s/entry/%d", s.baseURL, ean.Int()),
		Store:           storeID,
		IsDiscount:      data.Get("entry_ad").Bool(),
		IsAgeRestricted: data.Get("contains_alcohol").Bool(),
	}, nil
}

// imageURL 이미지 식별자가 있으면 이미지 저장소 URL을, 없으면 대체 이미지를 반환합니다.
func (s *Source) imageURL(data gjson.Result) string {
	guid := data.Get("image_guid")
	if !guid.Exists() || guid.String() == "" {
		return source.PlaceholderImageURL
	}
	return fmt.Sprintf("%s/%s.png", s.imageBaseURL, guid.String())
}
