package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempConfig 테스트용 임시 설정 파일을 생성하고 그 경로를 반환합니다.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfigJSON = `{
	"debug": false,
	"database": {
		"host": "localhost",
		"user": "hocus",
		"password": "pocus",
		"name": "products"
	},
	"sources": [
		{
			"id": "prisma",
			"ids_file": "data/prisma_ids.txt",
			"base_url": "https://www.prismamarket.ee"
		},
		{
			"id": "selver",
			"base_url": "https://www.selver.ee"
		}
	],
	"scheduler": {
		"runnable": true,
		"time_spec": "0 0 6 * * *"
	}
}`

func TestLoadWithFile(t *testing.T) {
	t.Run("정상적인 설정 파일을 로드한다", func(t *testing.T) {
		path := writeTempConfig(t, validConfigJSON)

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.False(t, cfg.Debug)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Len(t, cfg.Sources, 2)
		assert.Equal(t, "prisma", cfg.Sources[0].ID)
		assert.True(t, cfg.Scheduler.Runnable)
	})

	t.Run("생략된 값에는 기본값이 적용된다", func(t *testing.T) {
		path := writeTempConfig(t, validConfigJSON)

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.Equal(t, DefaultFetchConcurrency, cfg.Fetch.Concurrency)
		assert.Equal(t, DefaultFetchTimeout, cfg.Fetch.Timeout)
		assert.Equal(t, DefaultCommitInterval, cfg.Commit.Interval)
		assert.Equal(t, DefaultCommitThreshold, cfg.Commit.MatchThreshold)
		assert.Equal(t, DefaultCommitProgressEvery, cfg.Commit.ProgressEvery)
		assert.Equal(t, 8080, cfg.WS.ListenPort)
		assert.Equal(t, 3306, cfg.Database.Port)
	})

	t.Run("환경 변수가 설정 파일보다 우선한다", func(t *testing.T) {
		t.Setenv("HOCUS_DATABASE__PASSWORD", "secret-from-env")
		t.Setenv("HOCUS_FETCH__CONCURRENCY", "5")

		path := writeTempConfig(t, validConfigJSON)

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.Equal(t, "secret-from-env", cfg.Database.Password)
		assert.Equal(t, 5, cfg.Fetch.Concurrency)
	})

	t.Run("설정 파일이 존재하지 않으면 에러를 반환한다", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(t.TempDir(), "no-such-file.json"))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.System))
	})

	t.Run("알 수 없는 필드가 포함된 설정 파일을 거부한다", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"database": {"host": "localhost", "user": "hocus", "name": "products"},
			"sources": [{"id": "prisma"}],
			"unknown_field": true
		}`)

		_, err := LoadWithFile(path)
		require.Error(t, err)
	})

	t.Run("수집 대상 상점이 비어있으면 에러를 반환한다", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"database": {"host": "localhost", "user": "hocus", "name": "products"},
			"sources": []
		}`)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("중복된 상점 ID를 거부한다", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"database": {"host": "localhost", "user": "hocus", "name": "products"},
			"sources": [{"id": "prisma"}, {"id": "prisma"}]
		}`)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "중복된 Source ID")
	})

	t.Run("유효하지 않은 Cron 명세를 거부한다", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"database": {"host": "localhost", "user": "hocus", "name": "products"},
			"sources": [{"id": "prisma"}],
			"scheduler": {"runnable": true, "time_spec": "not-a-cron"}
		}`)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("스케줄러가 비활성화 상태면 Cron 명세를 검사하지 않는다", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"database": {"host": "localhost", "user": "hocus", "name": "products"},
			"sources": [{"id": "prisma"}],
			"scheduler": {"runnable": false, "time_spec": "garbage"}
		}`)

		_, err := LoadWithFile(path)
		require.NoError(t, err)
	})

	t.Run("잘못된 형식의 텔레그램 봇 토큰을 거부한다", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"database": {"host": "localhost", "user": "hocus", "name": "products"},
			"sources": [{"id": "prisma"}],
			"notifier": {"telegram": {"bot_token": "invalid-token", "chat_id": 12345}}
		}`)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BotToken")
	})

	t.Run("데이터베이스 필수 설정 누락을 거부한다", func(t *testing.T) {
		path := writeTempConfig(t, `{
			"database": {"host": "localhost"},
			"sources": [{"id": "prisma"}]
		}`)

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     3306,
		User:     "hocus",
		Password: "pocus",
		Name:     "products",
	}

	assert.Equal(t, "hocus:pocus@tcp(db.internal:3306)/products?parseTime=true&charset=utf8mb4", cfg.DSN())
}

func TestTelegramConfig_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  TelegramConfig
		want bool
	}{
		{"토큰과 채팅 ID가 모두 설정됨", TelegramConfig{BotToken: "123456:ABC", ChatID: 1}, true},
		{"토큰 누락", TelegramConfig{ChatID: 1}, false},
		{"채팅 ID 누락", TelegramConfig{BotToken: "123456:ABC"}, false},
		{"모두 누락", TelegramConfig{}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.Enabled())
		})
	}
}

func TestAppConfig_VerifyRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("예약 포트 사용 시 경고를 반환한다", func(t *testing.T) {
		t.Parallel()

		cfg := &AppConfig{WS: WSConfig{ListenPort: 80}, Fetch: FetchConfig{Concurrency: 20}}
		warnings := cfg.VerifyRecommendations()
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "예약 포트")
	})

	t.Run("권장 범위 내의 설정은 경고가 없다", func(t *testing.T) {
		t.Parallel()

		cfg := &AppConfig{WS: WSConfig{ListenPort: 8080}, Fetch: FetchConfig{Concurrency: 20}}
		assert.Empty(t, cfg.VerifyRecommendations())
	})
}
