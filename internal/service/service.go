// Package service 애플리케이션을 구성하는 서비스들의 공통 생명주기 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 독립적인 생명주기를 가지는 서비스가 구현해야 하는 인터페이스입니다.
type Service interface {
	// Start 서비스를 시작합니다.
	//
	// serviceStopCtx가 취소되면 서비스는 스스로 종료 절차를 수행해야 하며,
	// 종료가 완료되면 serviceStopWG.Done()을 호출하여 이를 알려야 합니다.
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
