// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/modelmanager/modelmanager/internal/testutil"
	"github.com/modelmanager/modelmanager/pkg/settings"
)

type (
	greetArgs struct {
		Name string `default:"world" help:"who to greet"`
	}

	trainArgs struct {
		Epochs int `default:"1"`
	}

	// Models is an eager plugin that keeps per-project state.
	Models struct {
		project *Project
		trained []string
	}

	// Cache is constructed on first access.
	Cache struct {
		Size int
	}

	Broken struct{}
)

var errBoom = errors.New("boom")

func greet(p *Project, a greetArgs) (string, error) {
	greeting, err := p.Get("greeting")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v %s", greeting, a.Name), nil
}

func newModels(p *Project) *Models { return &Models{project: p} }

func (m *Models) Train(a trainArgs) string {
	m.trained = append(m.trained, fmt.Sprint(a.Epochs))
	return fmt.Sprintf("trained %s for %d epochs", m.project.Dir(), a.Epochs)
}

func (m *Models) Trained() int { return len(m.trained) }

func (m *Models) RequiredSettings() map[string][]string {
	return map[string][]string{"train": {"dataset"}}
}

func newCache(*Project) *Cache { return &Cache{Size: 8} }

func newBroken(*Project) (*Broken, error) { return nil, errBoom }

func (b *Broken) X() int { return 1 }

func testModule() settings.Symbols {
	return settings.Symbols{
		"greeting": "hello",
		"greet":    settings.Func(greet, "Greet someone."),
		"models":   settings.Plugin(newModels, "Model helpers."),
		"cache":    settings.Lazy(newCache, "Lazily built cache."),
		"broken":   settings.Plugin(newBroken, ""),
		"evaluate": settings.Func(func() string { return "ok" }, "Evaluate.", "dataset", "metric"),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestProject creates a project from testModule and a CUE settings file.
func newTestProject(t *testing.T, settingsCUE string, opts ...Option) *Project {
	t.Helper()
	root := testutil.NewSettingsProject(t, ".cue", settingsCUE)
	opts = append([]Option{WithModule(testModule()), WithLogger(discardLogger())}, opts...)
	p, err := New(t.Context(), root, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}
