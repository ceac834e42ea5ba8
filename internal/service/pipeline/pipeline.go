// Package pipeline 수집 실행 1회의 전체 흐름을 담당합니다.
//
// 저장소 초기화, 상점별 상품 수집, 상점 간 매칭, 비교 결과 재구성을
// 순서대로 수행하고 실행 결과 요약을 만들어 알림으로 발송합니다.
package pipeline

import (
	"context"
	"sync"
	"time"

	applog "github.com/qtchaos/hocus-pocus-v2/pkg/log"
	"github.com/qtchaos/hocus-pocus-v2/pkg/strutil"

	"github.com/qtchaos/hocus-pocus-v2/internal/config"
	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/contract"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/matcher"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scanner"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/fetcher"
	"github.com/qtchaos/hocus-pocus-v2/internal/service/scanner/source"
)

const component = "pipeline"

// sourceEntry 수집 대상 상점 하나의 어댑터와 식별자 목록 파일 경로
type sourceEntry struct {
	src     source.Source
	idsFile string
}

// Runner 수집 파이프라인 실행기.
// 동시에 둘 이상의 실행이 겹치지 않도록 보장합니다.
type Runner struct {
	writer     contract.ProductWriter
	matchStore contract.MatchStore
	pacer      contract.CommitPacer
	notifier   contract.RunNotifier

	scanner *scanner.Scanner
	sources []sourceEntry

	// dummy 활성화 시 저장소 초기화를 생략하고 아무것도 커밋하지 않는다.
	dummy bool

	runningMutex sync.Mutex
}

var _ contract.PipelineRunner = (*Runner)(nil)

// New 설정의 상점 목록으로 파이프라인 실행기를 생성합니다.
// 등록되지 않은 상점 ID가 설정에 있으면 에러를 반환합니다.
func New(cfg *config.AppConfig, writer contract.ProductWriter, matchStore contract.MatchStore, pacer contract.CommitPacer, f fetcher.Fetcher, notifier contract.RunNotifier) (*Runner, error) {
	sources := make([]sourceEntry, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		src, err := source.New(sc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, sourceEntry{src: src, idsFile: sc.IDsFile})
	}

	if cfg.Dummy {
		pacer = nopPacer{}
	}

	return &Runner{
		writer:     writer,
		matchStore: matchStore,
		pacer:      pacer,
		notifier:   notifier,
		scanner:    scanner.New(writer, pacer, f, cfg.Fetch.Concurrency),
		sources:    sources,
		dummy:      cfg.Dummy,
	}, nil
}

// Run 파이프라인 1회를 실행하고 결과 요약을 반환합니다.
//
// 이미 실행 중이면 새 실행을 시작하지 않고 에러를 반환합니다.
// 실행 중 오류가 발생하면 알림을 발송한 뒤 그 오류를 반환합니다.
func (r *Runner) Run(ctx context.Context) (contract.RunSummary, error) {
	if !r.runningMutex.TryLock() {
		return contract.RunSummary{}, apperrors.New(apperrors.Conflict, "수집 파이프라인이 이미 실행 중입니다")
	}
	defer r.runningMutex.Unlock()

	logger := applog.WithComponent(component)
	logger.Info("수집 파이프라인 실행을 시작합니다.")

	startTime := time.Now()

	summary, err := r.run(ctx)
	if err != nil {
		logger.Errorf("수집 파이프라인 실행이 실패했습니다. (error:%s)", err)
		if notifyErr := r.notifier.NotifyError(ctx, "수집 파이프라인 실행이 실패했습니다", err); notifyErr != nil {
			logger.Errorf("실행 실패 알림 발송이 실패했습니다. (error:%s)", notifyErr)
		}
		return summary, err
	}

	summary.ElapsedText = strutil.FormatDuration(time.Since(startTime))

	logger.Infof("수집 파이프라인 실행이 완료되었습니다. (처리:%s건, 매칭:%s쌍, 소요시간:%s)",
		strutil.FormatCommas(summary.Total()), strutil.FormatCommas(summary.Matched), summary.ElapsedText)

	if err := r.notifier.NotifyRunSummary(ctx, summary); err != nil {
		logger.Errorf("실행 결과 알림 발송이 실패했습니다. (error:%s)", err)
	}

	return summary, nil
}

func (r *Runner) run(ctx context.Context) (contract.RunSummary, error) {
	logger := applog.WithComponent(component)

	summary := contract.RunSummary{SourceCounts: map[contract.StoreID]int{}}

	if r.dummy {
		logger.Warn("더미 모드가 활성화되어 저장소 초기화를 생략하고 수집 결과를 커밋하지 않습니다.")
	} else {
		if err := r.writer.Clear(ctx); err != nil {
			return summary, err
		}
	}

	for _, entry := range r.sources {
		ids, err := scanner.LoadIDs(entry.idsFile)
		if err != nil {
			return summary, err
		}
		if len(ids) == 0 {
			logger.Warnf("%s 상점의 수집 대상 목록이 비어있어 수집을 건너뜁니다.", entry.src.ID())
			continue
		}

		r.pacer.Reset()

		count, err := r.scanner.Scan(ctx, entry.src, ids)
		if err != nil {
			return summary, err
		}
		summary.SourceCounts[entry.src.ID()] = count
	}

	r.pacer.Reset()

	matched, err := matcher.New(r.matchStore, r.pacer).Run(ctx)
	if err != nil {
		return summary, err
	}
	summary.Matched = matched

	return summary, nil
}

// nopPacer 더미 모드에서 사용하는, 아무것도 커밋하지 않는 CommitPacer
type nopPacer struct{}

func (nopPacer) Pace(context.Context, bool) (bool, error) { return false, nil }
func (nopPacer) Flush(context.Context) error              { return nil }
func (nopPacer) Reset()                                   {}
