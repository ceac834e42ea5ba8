package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"용량 접미사 제거(리터)", "Piim Alma, 1 l", "Piim Alma"},
		{"용량 접미사 제거(그램)", "Juust Eesti 300 g", "Juust Eesti"},
		{"용량 접미사 제거(킬로그램)", "Kartul 2 kg", "Kartul"},
		{"묶음 표기 제거", "Jogurt Tere 4 x 150", "Jogurt Tere"},
		{"개수 표기 제거", "Munad 10 tk", "Munad"},
		{"비표준 따옴표 정리", "O´kei leib", "O'kei Leib"},
		{"HTML 엔티티 잔재 제거", "Fanta Orange amp;", "Fanta Orange "},
		{"중복 공백 정리", "Sai  Eesti", "Sai Eesti"},
		{"대문자 상품명의 Title Case 변환", "RUKKILEIB TALLINNA", "Rukkileib Tallinna"},
		{"접미사가 없는 이름은 그대로 유지", "Või Eesti", "Või Eesti"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}

	t.Run("정규화는 멱등적이다", func(t *testing.T) {
		t.Parallel()

		inputs := []string{
			"Piim Alma, 1 l",
			"RUKKILEIB TALLINNA 500 g",
			"O´kei  leib",
			"Või Eesti",
		}
		for _, input := range inputs {
			once := NormalizeName(input)
			assert.Equal(t, once, NormalizeName(once), "input: %s", input)
		}
	})
}

func TestNormalizeBrand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Alma", NormalizeBrand("Alma"))
	assert.Equal(t, UnknownBrand, NormalizeBrand(""))
}
