// SPDX-License-Identifier: MPL-2.0

package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelmanager/modelmanager/internal/issue"
	"github.com/modelmanager/modelmanager/pkg/settingsfile"
)

// DefaultResourceDir is the directory setup creates under the project root.
const DefaultResourceDir = ".mm"

// SetupOptions configures Setup.
type SetupOptions struct {
	// ResourceDir is created under the project root. Empty means ".mm".
	ResourceDir string
	// FileName is the settings file name. Empty means "settings.cue".
	FileName string
	// Format is a settings format such as "cue", "hcl", "toml" or "yaml". It
	// replaces the extension of FileName. Empty keeps the extension.
	Format string
	// Force writes the settings file even when the resource directory exists.
	Force bool
}

// Setup creates the resource directory under dir and writes a starter
// settings file into it. The written file is evaluated before Setup returns,
// so a template that does not parse is reported immediately. It returns the
// path of the settings file.
func Setup(ctx context.Context, dir string, opts SetupOptions) (string, error) {
	resourceDir := opts.ResourceDir
	if resourceDir == "" {
		resourceDir = DefaultResourceDir
	}
	fileName := opts.FileName
	if fileName == "" {
		fileName = settingsfile.DefaultFileName
	}
	if opts.Format != "" {
		ext := "." + strings.TrimPrefix(strings.ToLower(opts.Format), ".")
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ext
	}

	template, err := settingsfile.Template(filepath.Ext(fileName))
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("set up project").
			WithResource(fileName).
			WithSuggestion("Use one of the formats cue, json, hcl, toml or yaml").
			Wrap(err).
			BuildError()
	}

	target := filepath.Join(dir, resourceDir)
	switch _, err := os.Stat(target); {
	case err == nil && !opts.Force:
		return "", issue.NewErrorContext().
			WithOperation("set up project").
			WithResource(target).
			WithIssue(issue.ResourceDirExistsId).
			WithSuggestion("Pass --force to overwrite the settings file").
			Wrap(fs.ErrExist).
			BuildError()
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("set up project: %w", err)
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create resource directory: %w", err)
	}
	path := filepath.Join(target, fileName)
	if err := os.WriteFile(path, template, 0o644); err != nil {
		return "", fmt.Errorf("write settings file: %w", err)
	}

	if _, err := settingsfile.NewLoader().Evaluate(ctx, path, dir); err != nil {
		return "", fmt.Errorf("check settings template: %w", err)
	}
	return path, nil
}
