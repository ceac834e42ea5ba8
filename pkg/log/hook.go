package log

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// hook 포맷팅된 로그를 파일과 콘솔로 분배하는 중앙 라우팅 Hook입니다.
//
// Logrus의 기본 출력은 io.Discard로 막아두고, 모든 실제 출력은 이 Hook이 담당합니다.
// 이렇게 하면 하나의 로그 엔트리를 여러 대상(파일, 콘솔)에 중복 포맷팅 없이 기록할 수 있습니다.
type hook struct {
	mainWriter    io.Writer
	consoleWriter io.Writer

	formatter logrus.Formatter

	// closed 로거 종료 이후 유입되는 로그의 쓰기 시도를 차단하기 위한 플래그 (0: open, 1: closed)
	closed int32
}

// Levels 이 Hook이 처리할 로그 레벨 목록을 반환합니다.
// 레벨 필터링 자체는 logrus.SetLevel이 담당하므로 모든 레벨을 수신합니다.
func (h *hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire 로그 엔트리를 포맷팅하여 등록된 모든 Writer에 기록합니다.
func (h *hook) Fire(entry *logrus.Entry) error {
	if atomic.LoadInt32(&h.closed) == 1 {
		return nil
	}

	serialized, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(serialized); err != nil {
			return err
		}
	}

	if h.consoleWriter != nil {
		// 콘솔 쓰기 실패는 무시: 파일 로그가 주 기록 수단이다.
		_, _ = h.consoleWriter.Write(serialized)
	}

	return nil
}

// Close Hook을 비활성화하여 이후 유입되는 로그 쓰기를 차단합니다.
func (h *hook) Close() {
	atomic.StoreInt32(&h.closed, 1)
}
