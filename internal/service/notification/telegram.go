// Package notification 수집 파이프라인의 실행 결과와 오류를 외부 채널로 발송합니다.
//
// 텔레그램 발송기와, 알림 채널이 설정되지 않았을 때 로그로만 남기는
// 대체 발송기를 제공합니다.
package notification

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sort"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"
	"github.com/qtchaos/hocus-pocus-v2/pkg/strutil"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
)

const (
	component = "notification"

	// messageMaxLength 텔레그램 Bot API의 단일 메시지 길이 제한 (바이트)
	messageMaxLength = 4096

	// httpClientTimeout 봇 API 호출 타임아웃.
	// 기본 http.DefaultClient는 타임아웃이 없어 네트워크 장애 시 요청이 무한히 대기할 수 있다.
	httpClientTimeout = 20 * time.Second

	// 텔레그램 API 정책을 준수하기 위한 발송 속도 제한
	sendRateLimit = 1 // 초당 허용 요청 수
	sendRateBurst = 3 // 순간 최대 허용 요청 수

	msgTitle      = "<b>【 %s 】</b>\n\n%s"
	msgRunSummary = "가격 비교 파이프라인 실행이 완료되었습니다.\n\n%s\n◦ 매칭: %s쌍\n◦ 소요시간: %s"
	msgRunError   = "*** 오류가 발생하였습니다. ***\n\n%s\n\n%s"
)

// botClient 텔레그램 봇 API 중 발송에 필요한 부분만 추린 인터페이스
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier 실행 결과를 텔레그램 채팅방으로 발송합니다.
type TelegramNotifier struct {
	bot    botClient
	chatID int64

	limiter *rate.Limiter
}

var _ contract.RunNotifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier 봇 API 클라이언트를 초기화하여 텔레그램 발송기를 생성합니다.
func NewTelegramNotifier(cfg config.TelegramConfig, debug bool) (*TelegramNotifier, error) {
	client := &http.Client{
		Timeout: httpClientTimeout,
	}

	botAPI, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다. BotToken이 올바른지 확인해주세요.")
	}
	botAPI.Debug = debug

	return newTelegramNotifierWithBot(botAPI, cfg.ChatID), nil
}

func newTelegramNotifierWithBot(bot botClient, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(sendRateLimit), sendRateBurst),
	}
}

// NotifyRunSummary 실행 결과 요약을 발송합니다.
func (n *TelegramNotifier) NotifyRunSummary(ctx context.Context, summary contract.RunSummary) error {
	return n.send(ctx, fmt.Sprintf(msgRunSummary,
		formatSourceCounts(summary.SourceCounts),
		strutil.FormatCommas(summary.Matched),
		summary.ElapsedText))
}

// NotifyError 실행 중 발생한 오류를 발송합니다.
func (n *TelegramNotifier) NotifyError(ctx context.Context, message string, cause error) error {
	return n.send(ctx, fmt.Sprintf(msgRunError, html.EscapeString(message), html.EscapeString(fmt.Sprintf("%v", cause))))
}

// send 제목을 붙인 메시지를 길이 제한에 맞춰 텔레그램으로 발송합니다.
func (n *TelegramNotifier) send(ctx context.Context, message string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.Timeout, "텔레그램 메시지 발송 대기가 중단되었습니다")
	}

	messageConfig := tgbotapi.NewMessage(n.chatID, strutil.Truncate(fmt.Sprintf(msgTitle, config.AppName, message), messageMaxLength))
	messageConfig.ParseMode = tgbotapi.ModeHTML

	if _, err := n.bot.Send(messageConfig); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 메시지 발송에 실패했습니다")
	}
	return nil
}

// formatSourceCounts 상점별 처리 건수를 상점 이름 순서로 정렬하여 한 줄씩 보여줍니다.
func formatSourceCounts(counts map[contract.StoreID]int) string {
	stores := make([]string, 0, len(counts))
	for store := range counts {
		stores = append(stores, string(store))
	}
	sort.Strings(stores)

	lines := ""
	for i, store := range stores {
		if i > 0 {
			lines += "\n"
		}
		lines += fmt.Sprintf("◦ %s: %s건", html.EscapeString(store), strutil.FormatCommas(counts[contract.StoreID(store)]))
	}
	return lines
}

// NopNotifier 알림 채널이 설정되지 않았을 때 사용하는 발송기로, 로그만 남깁니다.
type NopNotifier struct{}

var _ contract.RunNotifier = (*NopNotifier)(nil)

// NotifyRunSummary 실행 결과 요약을 로그로만 남깁니다.
func (NopNotifier) NotifyRunSummary(_ context.Context, summary contract.RunSummary) error {
	applog.WithComponent(component).Infof("알림 채널이 설정되지 않아 실행 결과를 로그로만 남깁니다. (처리:%d건, 매칭:%d쌍)",
		summary.Total(), summary.Matched)
	return nil
}

// NotifyError 실행 오류를 로그로만 남깁니다.
func (NopNotifier) NotifyError(_ context.Context, message string, cause error) error {
	applog.WithComponent(component).Errorf("%s (error:%s)", message, cause)
	return nil
}
