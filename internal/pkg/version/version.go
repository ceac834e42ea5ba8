// Package version 애플리케이션의 빌드 메타데이터를 관리합니다.
//
// 빌드 시점에 링커 플래그(-ldflags)로 주입된 값과 실행 파일의 디버그 정보를
// 병합하여 버전, 커밋 해시, 빌드 시간 등을 제공합니다.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

const unknown = "unknown"

// 다음 변수들은 빌드 스크립트에서 링커 플래그를 통해 주입됩니다.
// 애플리케이션 로직에서는 직접 접근하지 말고 Get()을 통해 조회해야 합니다.
var (
	appVersion    = "" // 애플리케이션 버전 (예: v2.1.0-12-g3fa1c02)
	gitCommitHash = "" // Git 커밋 해시
	buildDate     = "" // 빌드 수행 시간 (ISO 8601)
)

// globalBuildInfo 전역 빌드 정보 (Thread-Safe 접근 보장)
var globalBuildInfo atomic.Value

// readBuildInfo 테스트에서 교체 가능하도록 변수로 선언합니다.
var readBuildInfo = debug.ReadBuildInfo

func init() {
	bi := Info{
		Version:   strings.TrimSpace(appVersion),
		Commit:    strings.TrimSpace(gitCommitHash),
		BuildDate: strings.TrimSpace(buildDate),
	}
	globalBuildInfo.Store(enrich(bi))
}

// Info 애플리케이션의 빌드 정보를 담고 있습니다.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get 애플리케이션의 빌드 정보를 반환합니다.
func Get() Info {
	bi := globalBuildInfo.Load()
	if bi == nil {
		return Info{Version: unknown, Commit: unknown, BuildDate: unknown}
	}
	return bi.(Info)
}

// enrich 초기화되지 않은 빌드 정보에 런타임 환경 값을 채워 넣습니다.
// ldflags 주입이 누락된 개발 환경(go run 등)에서는 실행 파일의
// 디버그 메타데이터에서 VCS 리비전 추출을 시도합니다.
func enrich(bi Info) Info {
	bi.GoVersion = runtime.Version()
	bi.OS = runtime.GOOS
	bi.Arch = runtime.GOARCH

	if val, ok := readBuildInfo(); ok {
		for _, setting := range val.Settings {
			switch setting.Key {
			case "vcs.revision":
				if bi.Commit == "" {
					bi.Commit = setting.Value
				}
			case "vcs.time":
				if bi.BuildDate == "" {
					bi.BuildDate = setting.Value
				}
			}
		}
		if bi.Version == "" && val.Main.Version != "(devel)" {
			bi.Version = val.Main.Version
		}
	}

	if bi.Version == "" {
		bi.Version = unknown
	}
	if bi.Commit == "" {
		bi.Commit = unknown
	}
	if bi.BuildDate == "" {
		bi.BuildDate = unknown
	}

	return bi
}

// String 빌드 정보를 사람이 읽기 쉬운 하나의 문자열로 요약해 반환합니다.
func (i Info) String() string {
	var details []string

	if i.Commit != "" && i.Commit != unknown {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		details = append(details, fmt.Sprintf("commit: %s", commit))
	}
	if i.BuildDate != "" && i.BuildDate != unknown {
		details = append(details, fmt.Sprintf("date: %s", i.BuildDate))
	}
	if i.GoVersion != "" {
		details = append(details, fmt.Sprintf("go: %s", i.GoVersion))
	}
	if i.OS != "" && i.Arch != "" {
		details = append(details, fmt.Sprintf("platform: %s/%s", i.OS, i.Arch))
	}

	if len(details) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(details, ", "))
}

// ToMap 빌드 정보를 구조적 로깅에 사용할 맵 형태로 반환합니다.
func (i Info) ToMap() map[string]any {
	return map[string]any{
		"version":    i.Version,
		"commit":     i.Commit,
		"build_date": i.BuildDate,
		"go_version": i.GoVersion,
		"os":         i.OS,
		"arch":       i.Arch,
	}
}
