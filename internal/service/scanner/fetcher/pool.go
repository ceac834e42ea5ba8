package fetcher

import (
	"context"
	"net/http"
	"sync"
)

// Request 수집 대상 식별자가 붙은 HTTP 요청입니다.
type Request struct {
	ID  string // 수집 대상 식별자 (상품 ID 또는 바코드)
	Req *http.Request
}

// Result 요청 하나의 수집 결과입니다. 성공과 실패 모두 하나의 Result로 수집됩니다.
type Result struct {
	ID   string
	Body []byte
	Err  error
}

// FetchAll 모든 요청을 제한된 동시성으로 수행하고, 요청당 하나의 결과를 반환합니다.
//
// 결과는 입력 요청과 같은 순서로 반환됩니다. 개별 요청의 실패는 해당 Result의
// Err에 담길 뿐 다른 요청을 중단시키지 않으며, 모든 요청이 완료될 때까지
// 반환하지 않습니다. ctx가 취소되면 아직 시작하지 않은 요청은 취소 에러로 완료됩니다.
func FetchAll(ctx context.Context, f Fetcher, reqs []Request, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(reqs))

	// 동시 실행 수를 제한하는 세마포어
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, r := range reqs {
		wg.Add(1)
		go func(idx int, r Request) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result{ID: r.ID, Err: ctx.Err()}
				return
			}

			body, err := FetchBytes(f, r.Req.WithContext(ctx))
			results[idx] = Result{ID: r.ID, Body: body, Err: err}
		}(i, r)
	}

	wg.Wait()
	return results
}
