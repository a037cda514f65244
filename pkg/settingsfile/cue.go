// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"context"
	"fmt"

	"github.com/modelmanager/modelmanager/pkg/cueutil"
)

// evalCUE evaluates .cue and .json files. Definitions and hidden fields stay
// internal to the file, so a #Settings schema can constrain the values.
func evalCUE(_ context.Context, src Source) (map[string]any, error) {
	v, err := cueutil.Compile(src.Data, cueutil.WithFilename(src.Path))
	if err != nil {
		return nil, err
	}
	out, err := cueutil.ToGo(v)
	if err != nil {
		return nil, cueutil.FormatError(err, src.Path)
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: top level must be a struct, got %T", src.Path, out)
	}
	return m, nil
}
