// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"context"

	"github.com/pelletier/go-toml/v2"
)

func evalTOML(_ context.Context, src Source) (map[string]any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(src.Data, &raw); err != nil {
		return nil, err
	}
	return normalizeMap(raw), nil
}
