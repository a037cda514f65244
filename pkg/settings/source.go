// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"runtime"
	"strings"
)

// maxSourceLines caps how much of a function body is quoted in failure reports.
const maxSourceLines = 40

// SourceInfo locates a function's definition.
type SourceInfo struct {
	Func string
	File string
	Line int
	// Text is the function's source text when the file is readable.
	Text string
}

// String returns "file:line", or the function name when the file is unknown.
func (s SourceInfo) String() string {
	if s.File == "" {
		return s.Func
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

func sourceOf(fn reflect.Value) SourceInfo {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return SourceInfo{}
	}
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return SourceInfo{}
	}
	file, line := f.FileLine(f.Entry())
	return SourceInfo{
		Func: f.Name(),
		File: file,
		Line: line,
		Text: readSource(file, line),
	}
}

// readSource returns the source text of the outermost function declaration
// or literal in file that starts on line, cut at maxSourceLines lines.
func readSource(file string, line int) string {
	data, err := os.ReadFile(file)
	if err != nil {
		return ""
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, data, parser.SkipObjectResolution)
	if err != nil {
		return ""
	}

	var best ast.Node
	ast.Inspect(f, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncDecl, *ast.FuncLit:
		default:
			return true
		}
		if best != nil {
			return false
		}
		start, end := fset.Position(n.Pos()), fset.Position(n.End())
		if line < start.Line || line > end.Line {
			return false
		}
		if start.Line == line {
			best = n
			return false
		}
		return true
	})
	if best == nil {
		return ""
	}

	start, end := fset.Position(best.Pos()).Offset, fset.Position(best.End()).Offset
	if start < 0 || end > len(data) || start > end {
		return ""
	}
	lines := strings.Split(string(data[start:end]), "\n")
	if len(lines) > maxSourceLines {
		lines = lines[:maxSourceLines]
	}
	return strings.Join(lines, "\n")
}
