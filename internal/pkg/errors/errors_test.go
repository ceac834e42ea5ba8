package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndWrap(t *testing.T) {
	t.Parallel()

	t.Run("New로 생성한 에러는 타입과 메시지를 보존한다", func(t *testing.T) {
		t.Parallel()

		err := New(NotFound, "상품을 찾을 수 없습니다")

		var appErr *AppError
		require.True(t, As(err, &appErr))
		assert.Equal(t, NotFound, appErr.Type())
		assert.Equal(t, "상품을 찾을 수 없습니다", appErr.Message())
		assert.Contains(t, err.Error(), "[NotFound]")
	})

	t.Run("Wrap은 원인 에러를 체인으로 보존한다", func(t *testing.T) {
		t.Parallel()

		rootErr := stderrors.New("connection refused")
		err := Wrap(rootErr, System, "데이터베이스 연결 실패")

		assert.Equal(t, rootErr, RootCause(err))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("nil 에러를 Wrap하면 nil을 반환한다", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, Wrap(nil, System, "무시되어야 하는 메시지"))
		assert.NoError(t, Wrapf(nil, System, "무시되어야 하는 메시지(%d)", 1))
	})
}

func TestIs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		errType  ErrorType
		expected bool
	}{
		{
			name:     "단일 에러의 타입 일치",
			err:      New(InvalidInput, "입력값 오류"),
			errType:  InvalidInput,
			expected: true,
		},
		{
			name:     "체인 안쪽의 타입 일치",
			err:      Wrap(New(NotFound, "없음"), System, "조회 실패"),
			errType:  NotFound,
			expected: true,
		},
		{
			name:     "체인에 없는 타입",
			err:      Wrap(New(NotFound, "없음"), System, "조회 실패"),
			errType:  Timeout,
			expected: false,
		},
		{
			name:     "nil 에러",
			err:      nil,
			errType:  NotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Is(tt.err, tt.errType))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	err := Wrap(stderrors.New("root cause"), ExecutionFailed, "작업 실패")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "[ExecutionFailed] 작업 실패")
	assert.Contains(t, detailed, "Caused by:")
	assert.Contains(t, detailed, "Stack trace:")
}
