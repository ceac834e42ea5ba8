// Package fetcher 상점 API 호출을 위한 HTTP 클라이언트와 병렬 수집 풀을 제공합니다.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"golang.org/x/net/html/charset"
)

// defaultUserAgent 상점 서버의 봇 차단 정책을 피하기 위한 일반 브라우저 User-Agent
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// defaultTimeout HTTP 요청의 기본 타임아웃
const defaultTimeout = 30 * time.Second

// maxResponseBytes 응답 본문 크기 상한 (비정상적으로 큰 응답으로 인한 메모리 고갈 방지)
const maxResponseBytes = 10 << 20 // 10MB

// Fetcher HTTP 요청을 수행하는 인터페이스
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher 실제 네트워크 요청을 수행하는 기본 Fetcher 구현체입니다.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 지정된 타임아웃으로 HTTPFetcher를 생성합니다.
// timeout이 0이면 기본 타임아웃(30초)이 적용됩니다.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Do 요청을 수행합니다. User-Agent가 비어있으면 기본값을 설정합니다.
func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	return f.client.Do(req)
}

// FetchBytes 요청을 수행하고 응답 본문을 UTF-8로 변환하여 반환합니다.
//
// 응답 헤더의 Content-Type을 분석하여 비 UTF-8 인코딩 응답도 자동으로 변환합니다.
func FetchBytes(f Fetcher, req *http.Request) ([]byte, error) {
	resp, err := f.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("요청(%s) 전송 중 네트워크 에러가 발생했습니다", req.URL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errType := apperrors.ExecutionFailed
		// 5xx (Server Error) or 429 (Too Many Requests) -> Unavailable
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			errType = apperrors.Unavailable
		}
		return nil, apperrors.New(errType, fmt.Sprintf("요청(%s)이 실패했습니다. 상태 코드: %s", req.URL, resp.Status))
	}

	utf8Reader, err := charset.NewReader(io.LimitReader(resp.Body, maxResponseBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("응답(%s)의 인코딩 변환이 실패하였습니다", req.URL))
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("응답(%s) 본문을 읽는데 실패했습니다", req.URL))
	}
	return body, nil
}
