package maputil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSettings struct {
	Endpoint string        `json:"endpoint"`
	Limit    int           `json:"limit"`
	Wait     time.Duration `json:"wait"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("json 태그 기준으로 필드를 매핑한다", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleSettings](map[string]interface{}{
			"endpoint": "https://example.com",
			"limit":    10,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.Endpoint)
		assert.Equal(t, 10, got.Limit)
	})

	t.Run("문자열 형태의 숫자와 기간을 변환한다", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleSettings](map[string]interface{}{
			"limit": "25",
			"wait":  "3s",
		})
		require.NoError(t, err)
		assert.Equal(t, 25, got.Limit)
		assert.Equal(t, 3*time.Second, got.Wait)
	})

	t.Run("정의되지 않은 필드는 무시한다", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleSettings](map[string]interface{}{
			"endpoint": "https://example.com",
			"unknown":  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.Endpoint)
	})

	t.Run("nil 입력은 빈 구조체를 반환한다", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleSettings](nil)
		require.NoError(t, err)
		assert.Equal(t, &sampleSettings{}, got)
	})
}

func TestDecodeTo(t *testing.T) {
	t.Parallel()

	t.Run("nil 대상은 에러를 반환한다", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, DecodeTo(map[string]interface{}{}, nil))
	})
}
