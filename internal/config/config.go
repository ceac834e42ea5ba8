// Package config 애플리케이션 설정의 로드와 검증을 담당합니다.
//
// 설정은 다음의 우선순위로 병합됩니다. (뒤로 갈수록 우선순위가 높음)
//  1. 기본값 (confmap)
//  2. JSON 설정 파일
//  3. 환경 변수 (접두사: HOCUS_)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/pkg/cronx"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "hocus-pocus"

	// DefaultFilename 실행 인자로 설정 파일 경로가 주어지지 않았을 때 참조하는 기본 파일명입니다.
	DefaultFilename = AppName + ".json"

	// 수집(Fetch) 정책 기본값
	DefaultFetchConcurrency = 20    // 동시 요청 수 상한
	DefaultFetchTimeout     = "30s" // 요청 타임아웃

	// 커밋(Commit) 정책 기본값
	DefaultCommitInterval      = "15s" // 시간 기반 커밋 주기
	DefaultCommitThreshold     = 25    // 매칭 단계의 건수 기반 커밋 임계치
	DefaultCommitProgressEvery = 250   // 진행 상황 로그 출력 주기
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug bool `json:"debug"`

	// Dummy 활성화 시 데이터베이스 초기화(TRUNCATE)를 생략하고 수집 결과를 커밋하지 않습니다.
	// 수집 및 정규화 로직을 운영 데이터 훼손 없이 검증할 때 사용합니다.
	Dummy bool `json:"dummy"`

	Database  DatabaseConfig  `json:"database"`
	Fetch     FetchConfig     `json:"fetch"`
	Commit    CommitConfig    `json:"commit"`
	Sources   []SourceConfig  `json:"sources" validate:"min=1,unique=ID"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Notifier  NotifierConfig  `json:"notifier"`
	WS        WSConfig        `json:"ws"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.Database.validate(); err != nil {
		return err
	}
	if err := c.Fetch.validate(); err != nil {
		return err
	}
	if err := c.Commit.validate(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.Scheduler.validate(); err != nil {
		return err
	}
	if err := c.Notifier.validate(); err != nil {
		return err
	}
	if err := c.WS.validate(); err != nil {
		return err
	}
	return nil
}

func (c *AppConfig) validateSources() error {
	if len(c.Sources) == 0 {
		return apperrors.New(apperrors.InvalidInput, "수집 대상 상점(sources) 목록이 비어있습니다")
	}

	// Sources 중복 ID 검사
	if err := checkUniqueField(c.Sources, "ID", "Source"); err != nil {
		return err
	}

	for _, s := range c.Sources {
		if err := checkStruct(s, fmt.Sprintf("Source['%s']", s.ID)); err != nil {
			return err
		}
	}

	return nil
}

// DatabaseConfig MySQL 데이터베이스 접속 정보를 정의하는 구조체
type DatabaseConfig struct {
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"min=1,max=65535"`
	User     string `json:"user" validate:"required"`
	Password string `json:"password"`
	Name     string `json:"name" validate:"required"`
}

func (c *DatabaseConfig) validate() error {
	return checkStruct(c, "Database")
}

// DSN go-sql-driver/mysql 형식의 접속 문자열을 반환합니다.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4", c.User, c.Password, c.Host, c.Port, c.Name)
}

// FetchConfig 상품 수집 시의 동시성과 타임아웃 정책을 정의하는 구조체
type FetchConfig struct {
	Concurrency int    `json:"concurrency" validate:"min=1,max=100"`
	Timeout     string `json:"timeout"`
}

func (c *FetchConfig) validate() error {
	if err := checkStruct(c, "Fetch"); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("수집 타임아웃(fetch.timeout) 설정이 올바르지 않습니다: '%s' (예: 30s, 500ms)", c.Timeout))
	}
	return nil
}

// TimeoutDuration 파싱된 타임아웃 값을 반환합니다. validate() 통과를 전제로 합니다.
func (c *FetchConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// CommitConfig 데이터베이스 커밋 배치 정책을 정의하는 구조체
type CommitConfig struct {
	Interval       string `json:"interval"`
	MatchThreshold int    `json:"match_threshold" validate:"min=1"`
	ProgressEvery  int    `json:"progress_every" validate:"min=1"`
}

func (c *CommitConfig) validate() error {
	if err := checkStruct(c, "Commit"); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("커밋 주기(commit.interval) 설정이 올바르지 않습니다: '%s' (예: 15s)", c.Interval))
	}
	return nil
}

// IntervalDuration 파싱된 커밋 주기를 반환합니다. validate() 통과를 전제로 합니다.
func (c *CommitConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

// SourceConfig 수집 대상 상점(Source)을 정의하는 구조체
//
// Data 필드는 각 상점 어댑터가 자신만의 설정 구조체로 변환하여 사용하는 자유 형식 영역입니다.
type SourceConfig struct {
	ID      string                 `json:"id" validate:"required"`
	IDsFile string                 `json:"ids_file"`
	BaseURL string                 `json:"base_url" validate:"omitempty,url"`
	Data    map[string]interface{} `json:"data"`
}

// SchedulerConfig 수집 파이프라인의 주기 실행 여부와 시점을 정의하는 구조체
type SchedulerConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

func (c *SchedulerConfig) validate() error {
	if !c.Runnable {
		return nil
	}
	if err := cronx.Validate(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("스케줄러 시간 명세(scheduler.time_spec)가 유효하지 않습니다: '%s'", c.TimeSpec))
	}
	return nil
}

// NotifierConfig 실행 결과 알림 채널을 정의하는 구조체
//
// 텔레그램 설정이 비어있으면 알림 발송은 비활성화됩니다.
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

func (c *NotifierConfig) validate() error {
	if !c.Telegram.Enabled() {
		return nil
	}
	return checkStruct(&c.Telegram, "Telegram Notifier")
}

// TelegramConfig 텔레그램 봇 토큰 및 채팅 ID 정보를 담는 설정 구조체
type TelegramConfig struct {
	BotToken string `json:"bot_token" validate:"omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id"`
}

// Enabled 텔레그램 알림 발송에 필요한 값이 모두 설정되었는지 여부를 반환합니다.
func (c *TelegramConfig) Enabled() bool {
	return strings.TrimSpace(c.BotToken) != "" && c.ChatID != 0
}

// WSConfig 가격 비교 조회 API 서버의 포트를 정의하는 구조체
type WSConfig struct {
	ListenPort int `json:"listen_port" validate:"min=1,max=65535"`
}

func (c *WSConfig) validate() error {
	return checkStruct(c, "WS")
}

// VerifyRecommendations 서비스 운영의 안정성을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.WS.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.WS.ListenPort))
	}

	// 과도한 동시 요청 수 경고
	if c.Fetch.Concurrency > 50 {
		warnings = append(warnings, fmt.Sprintf("동시 요청 수(fetch.concurrency)가 과도하게 설정되었습니다(%d). 대상 서버의 차단 정책에 걸릴 수 있습니다", c.Fetch.Concurrency))
	}

	return warnings
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"fetch.concurrency":      DefaultFetchConcurrency,
		"fetch.timeout":          DefaultFetchTimeout,
		"commit.interval":        DefaultCommitInterval,
		"commit.match_threshold": DefaultCommitThreshold,
		"commit.progress_every":  DefaultCommitProgressEvery,
		"ws.listen_port":         8080,
		"database.port":          3306,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: HOCUS_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: HOCUS_DATABASE__PASSWORD -> database.password
	if err := k.Load(env.Provider("HOCUS_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "HOCUS_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
