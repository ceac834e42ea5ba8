package source

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// UnknownBrand 브랜드 정보가 없는 상품에 부여되는 기본값
	UnknownBrand = "N/A"

	// PlaceholderImageURL 이미지가 없는 상품에 사용하는 대체 이미지
	PlaceholderImageURL = "https://www.prismamarket.ee/images/entry_no_image_170.png"
)

// quantitySuffixRegex 상품명 뒤에 붙는 용량/단위 표기의 시작 지점을 찾습니다.
// 예: "Piim Alma, 1 l" -> ", 1 l"부터 잘라냄
var quantitySuffixRegex = regexp.MustCompile(`(?i),? \d{1,4}?\d? ?(g|kg|ml|l|/|tk|€|x|×|,)`)

// nameReplacer 상점 데이터에 섞여 들어오는 잘못된 문자들을 정리합니다.
var nameReplacer = strings.NewReplacer(
	"´", "'",
	"`", "'",
	"  ", " ",
	"amp;", "",
)

// estonianTitle 에스토니아어 단어 단위 Title Case 변환기
var estonianTitle = cases.Title(language.Estonian)

// NormalizeName 상품명을 비교 가능한 형태로 정규화합니다.
//
// 처리 순서:
//  1. 잘못된 문자 정리 (비표준 따옴표, 중복 공백, HTML 엔티티 잔재)
//  2. 용량/단위 접미사 제거 (상점마다 표기가 달라 비교를 방해함)
//  3. 단어 단위 Title Case 변환
//
// 이미 정규화된 이름에 다시 적용해도 결과는 같습니다.
func NormalizeName(name string) string {
	name = nameReplacer.Replace(name)

	if loc := quantitySuffixRegex.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}

	return estonianTitle.String(name)
}

// NormalizeBrand 비어있는 브랜드를 기본값으로 치환합니다.
func NormalizeBrand(brand string) string {
	if brand == "" {
		return UnknownBrand
	}
	return brand
}
