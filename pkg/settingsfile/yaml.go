// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

func evalYAML(_ context.Context, src Source) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(src.Data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	m, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be a mapping, got %T", raw)
	}
	return m, nil
}
