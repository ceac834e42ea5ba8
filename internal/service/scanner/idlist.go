package scanner

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/qtchaos/hocus-pocus-v2/internal/pkg/errors"
)

// LoadIDs 수집 대상 식별자 목록 파일을 읽어 반환합니다.
//
// 파일은 쉼표로 구분된 식별자 목록이며, 각 항목의 앞뒤 공백은 제거됩니다.
// 파일이 존재하지 않으면 빈 목록을 반환합니다. 해당 상점의 수집을
// 수행하지 않는다는 의미이며 에러로 취급하지 않습니다.
func LoadIDs(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("수집 대상 목록 파일(%s)을 읽을 수 없습니다", path))
	}

	var ids []string
	for _, raw := range strings.Split(string(data), ",") {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
