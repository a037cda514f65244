// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"log/slog"
)

// LoadOptions selects the tool config file. The zero value reads
// config.cue from ConfigDir.
type LoadOptions struct {
	// ConfigFilePath is the --config flag; the file must exist.
	ConfigFilePath string
	// ConfigDirPath replaces ConfigDir, mainly for tests.
	ConfigDirPath string
}

// Provider supplies the tool config to the command line. Tests swap in a
// fixed Config through commandline.WithConfigProvider.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, error)

func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return f(ctx, opts)
}

// NewProvider reads the CUE config file with MODELMANAGER_* overrides and
// logs at debug level which file, if any, supplied it.
func NewProvider() Provider {
	return ProviderFunc(func(ctx context.Context, opts LoadOptions) (*Config, error) {
		cfg, path, err := loadWithOptions(ctx, opts)
		if err != nil {
			return nil, err
		}
		if path == "" {
			slog.DebugContext(ctx, "no config file, using defaults")
		} else {
			slog.DebugContext(ctx, "config loaded", "path", path)
		}
		return cfg, nil
	})
}
