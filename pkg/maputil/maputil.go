// Package maputil 맵(Map) 데이터의 구조체 변환을 위한 유틸리티 기능을 제공합니다.
package maputil

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode 입력된 맵(Map)이나 인터페이스 데이터를 지정된 제네릭 타입 T의 구조체로 변환하여 반환합니다.
//
// 기본 동작:
//   - 유연한 타입 변환 (Weakly Typed): "123" -> 123 (int), 1 -> true (bool) 등을 자동으로 보정합니다.
//   - 구조체의 `json` 태그를 기준으로 필드를 매핑합니다.
//   - 구조체에 정의되지 않은 필드가 입력에 포함되어 있어도 에러 없이 무시됩니다.
func Decode[T any](input any) (*T, error) {
	output := new(T)
	if err := DecodeTo(input, output); err != nil {
		return nil, err
	}
	return output, nil
}

// DecodeTo 입력된 데이터를 대상 구조체 포인터(output)에 디코딩하여 값을 채웁니다.
// output은 반드시 nil이 아닌 포인터여야 합니다.
func DecodeTo(input, output any) error {
	if output == nil {
		return errors.New("디코딩 대상(output)은 nil일 수 없습니다")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("디코더 생성에 실패했습니다: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("맵 데이터를 구조체로 변환하는데 실패했습니다: %w", err)
	}
	return nil
}
