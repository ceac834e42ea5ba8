// Package category 상점별 세부 분류명을 공통 상위 분류로 변환하는 매핑 테이블을 제공합니다.
//
// 상점마다 상품 분류 체계가 다르기 때문에, 가격 비교 시에는 양쪽 상점의
// 세부 분류를 하나의 공통 분류로 정규화해야 합니다.
package category

// Unknown 매핑 테이블에 존재하지 않는 분류에 부여되는 기본값
const Unknown = "N/A"

// categoryTable 공통 상위 분류 -> 상점별 세부 분류명 목록
var categoryTable = map[string][]string{
	"Mahlad ja joogid": {
		"Mahlad ja -kontsentraadid, siirupid",
		"Muud joogid",
		"Alkoholivabad joogid",
		"Energiajoogid",
		"Kakaod, kakaojoogid",
		"Karastusjoogid, toonikud",
		"Kohvid",
		"Smuutid, värsked mahlad",
		"Spordijoogid",
	},
	"Alkohoolsed joogid": {
		"Long Drink",
		"Siider",
		"Ölled",
		"Kange Alkohol",
		"Džinnid",
		"Konjakid, brändid",
		"Liköörid",
		"Liköörveinid",
		"Muud kanged alkohoolsed joogid",
		"Punased veinid",
		"Roosad veinid",
		"Rummid",
		"Õlled, siidrid, segud, kokteilid",
		"Šampanjad, vahuveinid",
	},
	"Juust": {
		"Juust",
		"Delikatessjuustud",
		"Juustud",
		"Määrdejuustud",
	},
	"Külmutatud ja jahedad tooted": {
		"KÜlmutatud Tooted",
		"Jahutatud valmistoidud",
		"Jogurtid, jogurtijoogid",
		"Jäätised",
		"Kohukesed",
		"Kohupiimad, kodujuustud",
		"Külmutatud liha- ja kalatooted",
		"Külmutatud köögiviljad, marjad, puuviljad",
		"Külmutatud tainad ja kondiitritooted",
		"Külmutatud valmistooted",
	},
	"Kuivained": {
		"Kuivained",
		"Paja- ja nuudliroad",
		"Hommikuhelbed, müslid, kiirpudrud",
		"Jahud",
		"Kuivsupid ja -kastmed",
		"Leivad",
		"Maitseained",
		"Makaronid",
		"Näkileivad",
		"Pähklid ja kuivatatud puuviljad",
		"Riisid",
		"Saiad",
		"Saiakesed, stritslid, kringlid",
		"Sepikud, kuklid, lavašid",
		"Sipsid",
		"Puljongid",
	},
	"Margariinid Ja õlid": {
		"Margariinid Ja õlid",
		"Võid, margariinid",
		"Õlid, äädikad",
	},
	"Viljad ja muud värsked tooted": {
		"Puu  Ja Juurviljad",
		"Köögiviljad, juurviljad",
		"Maitsetaimed, värsked salatid, piprad",
		"Salatid",
		"Seened",
		"Õunad, pirnid",
	},
	"Munad": {
		"Munad",
	},
	"Piimatooted": {
		"Piimatooted",
		"Suupisted (Piim)",
		"Piimad, koored",
	},
	"Lihad ja kalatooted": {
		"Grillvorstid, verivorstid",
		"Hakkliha",
		"Keedu- ja suitsuvorstid, viinerid",
		"Linnuliha",
		"Muud kalatooted",
		"Muud lihatooted",
		"Sealiha",
		"Singid, rulaadid",
		"Soolatud ja suitsutatud kalatooted",
		"Sushi",
	},
	"Hoidised": {
		"Hoidised",
		"Ketšupid, tomatipastad, kastmed",
		"Majoneesid, sinepid",
	},
	"Kommid ja muud magusad": {
		"Kommikarbid",
		"Kommipakid",
		"Koogid, rullbiskviidid, tainad",
		"Küpsised",
		"Magusad hoidised",
		"Magustoidud",
		"Maiustused, küpsised, näksid",
		"Muud magustoidud",
		"Muud maiustused",
		"Šokolaadid",
	},
	"Lastetoidud": {
		"Lastetoidud",
	},
	"Maailma köök": {
		"Maailma köök",
	},
}

// subToCategory 세부 분류명 -> 공통 상위 분류 역방향 인덱스 (조회 성능용)
var subToCategory = func() map[string]string {
	m := make(map[string]string)
	for category, subs := range categoryTable {
		for _, sub := range subs {
			m[sub] = category
		}
	}
	return m
}()

// Resolve 상점의 세부 분류명에 대응하는 공통 상위 분류를 반환합니다.
// 매핑 테이블에 존재하지 않는 분류는 Unknown("N/A")으로 처리됩니다.
func Resolve(subCategory string) string {
	if category, ok := subToCategory[subCategory]; ok {
		return category
	}
	return Unknown
}
