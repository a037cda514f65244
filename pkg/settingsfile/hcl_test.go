// SPDX-License-Identifier: MPL-2.0

package settingsfile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelmanager/modelmanager/internal/testutil"
)

func TestHCLReferencesAndFunctions(t *testing.T) {
	testutil.MustSetenv(t, "MODELMANAGER_HCL_VALUE", "from-environment")

	src := `
out_dir   = "${data_dir}/out"
data_dir  = "${project_dir}/data"
shout     = upper(name)
name      = "demo"
tags      = concat(["a"], ["b"])
joined    = join(",", tags)
from_env  = env.MODELMANAGER_HCL_VALUE
sum       = count + 2
count     = 1
`
	root := t.TempDir()
	path := filepath.Join(root, "settings.hcl")
	testutil.MustWriteFile(t, path, src)

	got, err := NewLoader().Evaluate(t.Context(), path, root)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	want := map[string]any{
		"data_dir": root + "/data",
		"out_dir":  root + "/data/out",
		"shout":    "DEMO",
		"joined":   "a,b",
		"from_env": "from-environment",
		"sum":      3,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %#v, want %#v", k, got[k], v)
		}
	}
}

func TestHCLCircularReference(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.hcl")
	testutil.MustWriteFile(t, path, "a = b\nb = a\n")

	_, err := NewLoader().Evaluate(t.Context(), path, "")
	if err == nil || !strings.Contains(err.Error(), "circular reference between a, b") {
		t.Errorf("Evaluate() error = %v, want circular reference", err)
	}
}

func TestHCLUnknownVariable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.hcl")
	testutil.MustWriteFile(t, path, "a = missing\n")

	_, err := NewLoader().Evaluate(t.Context(), path, "")
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("Evaluate() error = %v, want unknown variable", err)
	}
}
