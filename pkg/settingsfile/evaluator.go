// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"context"
	"path/filepath"
	"strings"
)

type (
	// Source is a settings file handed to an Evaluator.
	Source struct {
		// Path is the file's path.
		Path string
		// Root is the project root directory.
		Root string
		// Data is the file content. It is nil for formats that are opened by
		// path, such as Go plugins.
		Data []byte
	}

	// Evaluator turns a settings file into named values.
	Evaluator interface {
		Evaluate(ctx context.Context, src Source) (map[string]any, error)
	}

	// EvaluatorFunc adapts a function to the Evaluator interface.
	EvaluatorFunc func(ctx context.Context, src Source) (map[string]any, error)
)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, src Source) (map[string]any, error) {
	return f(ctx, src)
}

// rawEvaluators read the file themselves.
var rawEvaluators = map[string]bool{".so": true}

func defaultEvaluators() map[string]Evaluator {
	return map[string]Evaluator{
		".cue":  EvaluatorFunc(evalCUE),
		".json": EvaluatorFunc(evalCUE),
		".hcl":  EvaluatorFunc(evalHCL),
		".toml": EvaluatorFunc(evalTOML),
		".yaml": EvaluatorFunc(evalYAML),
		".yml":  EvaluatorFunc(evalYAML),
		".so":   EvaluatorFunc(evalGoPlugin),
	}
}

// Formats lists the settings file extensions that have an evaluator by default.
func Formats() []string {
	return []string{".cue", ".hcl", ".json", ".so", ".toml", ".yaml", ".yml"}
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
