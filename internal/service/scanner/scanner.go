// Package scanner 상점별 상품 수집 파이프라인입니다.
//
// 식별자 목록의 요청을 제한된 동시성으로 수행하고, 응답을 어댑터로
// 정규화한 뒤 저장소에 기록합니다. 개별 레코드의 실패는 전체 수집을
// 중단시키지 않습니다.
package scanner

import (
	"context"
	"errors"
	"fmt"

	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/fetcher"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/source"
)

const component = "scanner"

// Scanner 상점 하나의 식별자 목록을 수집하여 저장소에 기록합니다.
type Scanner struct {
	writer  contract.ProductWriter
	pacer   contract.CommitPacer
	fetcher fetcher.Fetcher

	concurrency int
}

// New Scanner를 생성합니다. concurrency는 동시에 수행할 요청 수의 상한입니다.
func New(writer contract.ProductWriter, pacer contract.CommitPacer, f fetcher.Fetcher, concurrency int) *Scanner {
	return &Scanner{
		writer:      writer,
		pacer:       pacer,
		fetcher:     f,
		concurrency: concurrency,
	}
}

// Scan 식별자 목록 전체를 수집하고 저장소에 기록된 상품 수를 반환합니다.
//
// 요청 실패, 정규화 거부 등 레코드 하나의 문제는 경고 로그와 함께 건너뛰며,
// 저장소 에러는 수집을 중단시킵니다. 반환 전에 누적된 변경 사항을 커밋합니다.
func (s *Scanner) Scan(ctx context.Context, src source.Source, ids []string) (int, error) {
	logger := applog.WithComponent(component).WithField("store", src.ID())

	reqs := make([]fetcher.Request, 0, len(ids))
	for _, id := range ids {
		req, err := src.BuildRequest(id)
		if err != nil {
			logger.WithField("id", id).Warnf("수집 요청 생성에 실패하여 건너뜁니다. (error:%s)", err)
			continue
		}
		reqs = append(reqs, fetcher.Request{ID: id, Req: req})
	}

	logger.Infof("%s 상점의 상품 수집을 시작합니다. (대상:%d건)", src.ID(), len(reqs))

	count := 0
	for _, result := range fetcher.FetchAll(ctx, s.fetcher, reqs, s.concurrency) {
		if result.Err != nil {
			if ctx.Err() != nil {
				return count, apperrors.Wrap(ctx.Err(), apperrors.Timeout, "상품 수집이 중단되었습니다")
			}
			logger.WithField("id", result.ID).Warnf("상품 조회에 실패하여 건너뜁니다. (error:%s)", result.Err)
			continue
		}

		p, err := src.Parse(result.Body)
		if err != nil {
			if errors.Is(err, source.ErrRecordRejected) {
				logger.WithField("id", result.ID).Debug("필수 필드가 없는 레코드를 건너뜁니다.")
			} else {
				logger.WithField("id", result.ID).Warnf("상품 정보 추출에 실패하여 건너뜁니다. (error:%s)", err)
			}
			continue
		}

		if err := s.write(ctx, src, p); err != nil {
			if errors.Is(err, errSkipped) {
				continue
			}
			return count, err
		}
		count++

		if _, err := s.pacer.Pace(ctx, false); err != nil {
			return count, err
		}
	}

	if err := s.pacer.Flush(ctx); err != nil {
		return count, err
	}

	logger.Infof("%s 상점의 상품 수집이 완료되었습니다. (기록:%d건)", src.ID(), count)

	return count, nil
}

// errSkipped 이미 존재하는 상품을 삽입 전용 상점에서 만나 건너뛰었음을 나타내는 내부 표식
var errSkipped = errors.New("skipped")

// write 상품 레코드 하나를 상점의 기록 방식에 따라 저장합니다.
//
// 삽입 전용 상점은 이미 존재하는 상품을 건너뛰고, 그 외에는 기존 레코드를 갱신합니다.
func (s *Scanner) write(ctx context.Context, src source.Source, p *contract.Product) error {
	exists, err := s.writer.Exists(ctx, p.Store, p.EAN)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("상품(%d) 존재 여부 확인에 실패했습니다", p.EAN))
	}

	if exists {
		if src.InsertOnly() {
			return errSkipped
		}
		return s.writer.Update(ctx, p)
	}
	return s.writer.Insert(ctx, p)
}
