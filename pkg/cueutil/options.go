// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the largest file Compile accepts (5 MiB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	compileOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
		schema      string
		definition  string
	}

	// Option configures Compile.
	Option func(*compileOptions)
)

func defaultOptions() compileOptions {
	return compileOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithMaxFileSize sets the maximum accepted input size.
func WithMaxFileSize(size int64) Option {
	return func(o *compileOptions) {
		o.maxFileSize = size
	}
}

// WithConcrete sets whether every value must be concrete after compilation.
// Defaults to true. Configuration files whose fields are all optional use false.
func WithConcrete(concrete bool) Option {
	return func(o *compileOptions) {
		o.concrete = concrete
	}
}

// WithFilename sets the file name reported in errors.
func WithFilename(name string) Option {
	return func(o *compileOptions) {
		o.filename = name
	}
}

// WithSchema unifies the input with definition (e.g. "#Config") taken from the
// given schema source before validation.
func WithSchema(schema, definition string) Option {
	return func(o *compileOptions) {
		o.schema = schema
		o.definition = definition
	}
}
