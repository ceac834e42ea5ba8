package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		subCategory string
		want        string
	}{
		{"음료 세부 분류", "Energiajoogid", "Mahlad ja joogid"},
		{"주류 세부 분류", "Šampanjad, vahuveinid", "Alkohoolsed joogid"},
		{"세부 분류와 상위 분류가 동일한 경우", "Munad", "Munad"},
		{"냉동식품 세부 분류", "Jäätised", "Külmutatud ja jahedad tooted"},
		{"존재하지 않는 분류", "Tundmatu kategooria", Unknown},
		{"빈 문자열", "", Unknown},
		{"대소문자가 다르면 매칭되지 않음", "energiajoogid", Unknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(tt.subCategory))
		})
	}
}

func TestReverseIndexCoversAllSubCategories(t *testing.T) {
	t.Parallel()

	total := 0
	for category, subs := range categoryTable {
		total += len(subs)
		for _, sub := range subs {
			assert.Equal(t, category, Resolve(sub))
		}
	}
	assert.Equal(t, total, len(subToCategory), "세부 분류명은 테이블 전체에서 유일해야 합니다")
}
