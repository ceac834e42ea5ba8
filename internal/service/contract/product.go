package contract

// StoreID 상품을 수집한 상점의 식별자입니다. (예: "prisma", "selver")
type StoreID string

// Product 정규화가 끝난 뒤 저장소에 기록되는 상품 레코드입니다.
//
// EAN은 상품의 대표 바코드이며, OtherEAN은 동일 상품이 다른 바코드로도
// 유통될 때의 첫 번째 대체 바코드입니다. 상점 간 매칭은 이 두 코드를
// 함께 대상으로 수행됩니다.
type Product struct {
	ID        int64   // 저장소가 부여한 내부 식별자
	EAN       int64   // 대표 바코드
	OtherEAN  int64   // 첫 번째 대체 바코드 (없으면 0)
	Name      string  // 정규화된 상품명
	Brand     string  // 브랜드 (없으면 "N/A")
	Category  string  // 공통 상위 분류 (없으면 "N/A")
	Price     float64 // 판매 가격
	UnitPrice float64 // 단위당 가격 (예: kg당)
	Weight    string  // 중량/용량 표기 원문
	ImageURL  string  // 상품 이미지 URL
	URL       string  // 상점의 상품 페이지 URL
	Store     StoreID // 수집 상점

	IsDiscount      bool // 할인 상품 여부
	IsAgeRestricted bool // 연령 제한 상품 여부(주류 등)

	// 매칭 엔진이 기록하는 비교 결과 필드
	// 가격 차이는 매칭된 쌍 중 더 싼 쪽(대표 레코드)에만 기록됩니다.
	PriceDifference    float64 // 가격 차이 (절대액, 항상 0 이상)
	PriceDifferencePct float64 // 평균 가격 대비 가격 차이 비율 (%)
	Superseded         bool    // 같은 상품의 더 싼 레코드가 존재하여 비교 결과에서 제외되었는지 여부
}

// RunSummary 수집 파이프라인 1회 실행의 결과 요약입니다.
type RunSummary struct {
	SourceCounts map[StoreID]int // 상점별 처리된 상품 수
	Matched      int             // 매칭된 상품 쌍의 수
	ElapsedText  string          // 사람이 읽기 쉬운 소요 시간 (h:mm:ss)
}

// Total 모든 상점의 처리 건수 합계를 반환합니다.
func (s RunSummary) Total() int {
	total := 0
	for _, n := range s.SourceCounts {
		total += n
	}
	return total
}
