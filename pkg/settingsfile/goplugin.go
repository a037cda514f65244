// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"context"
	"fmt"
	"plugin"

	"github.com/modelmanager/modelmanager/pkg/settings"
)

// pluginSymbol is the variable a Go plugin settings module exports.
const pluginSymbol = "Symbols"

// evalGoPlugin opens a module built with -buildmode=plugin. Opening the same
// path again returns the already loaded image, so a reload re-reads the
// exported table without reloading code.
func evalGoPlugin(_ context.Context, src Source) (map[string]any, error) {
	p, err := plugin.Open(src.Path)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup(pluginSymbol)
	if err != nil {
		return nil, err
	}
	switch s := sym.(type) {
	case *settings.Symbols:
		return s.Clone(), nil
	case *map[string]any:
		return settings.Symbols(*s).Clone(), nil
	default:
		return nil, fmt.Errorf("%s: exported %s has type %T, want settings.Symbols", src.Path, pluginSymbol, sym)
	}
}
