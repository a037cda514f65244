// SPDX-License-Identifier: MPL-2.0

package commandline

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelmanager/modelmanager/pkg/settings"
)

// reservedShorthands are taken by help and the global flags.
var reservedShorthands = map[byte]bool{'h': true, 'p': true, 'v': true}

type (
	// argValue is the flag of one non-bool optional parameter. Set checks
	// that the text converts to the parameter type; the raw text is what
	// reaches the invoker.
	argValue struct {
		typ reflect.Type
		def any
		raw string
		set bool
	}

	// boolState is shared by the --name and --not-name flags of one bool
	// parameter.
	boolState struct {
		value bool
		set   bool
	}

	// boolValue is one direction of a bool flag pair.
	boolValue struct {
		state *boolState
		on    bool
	}

	// leafFlags maps the flags of a leaf command back to parameter names.
	leafFlags struct {
		values map[string]*argValue
		bools  map[string]*boolState
	}

	flagSpec struct {
		param   string
		name    string
		usage   string
		hidden  bool
		// noShort flags never get a shorthand.
		noShort bool
	}
)

// String implements pflag.Value.
func (v *argValue) String() string {
	if v.set {
		return v.raw
	}
	switch d := v.def.(type) {
	case nil:
		return ""
	case string:
		return d
	case time.Duration:
		if d == 0 {
			return ""
		}
		return d.String()
	default:
		if reflect.ValueOf(d).IsZero() {
			return ""
		}
		return settings.FormatLiteral(d)
	}
}

// Set implements pflag.Value.
func (v *argValue) Set(s string) error {
	if _, err := settings.Coerce(s, v.typ); err != nil {
		return err
	}
	v.raw = s
	v.set = true
	return nil
}

// Type implements pflag.Value.
func (v *argValue) Type() string { return typeName(v.typ) }

// String implements pflag.Value.
func (v *boolValue) String() string { return strconv.FormatBool(v.on == v.state.value) }

// Set implements pflag.Value.
func (v *boolValue) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	v.state.value = b == v.on
	v.state.set = true
	return nil
}

// Type implements pflag.Value.
func (v *boolValue) Type() string { return "bool" }

// IsBoolFlag lets the flag be given without a value.
func (v *boolValue) IsBoolFlag() bool { return true }

// addLeafFlags defines the flags of d's optional parameters on cmd and, when
// d collects keywords, its remainder flag.
func addLeafFlags(cmd *cobra.Command, d *settings.FunctionDescriptor) *leafFlags {
	lf := &leafFlags{
		values: make(map[string]*argValue),
		bools:  make(map[string]*boolState),
	}

	var specs []flagSpec
	for _, o := range d.Optional() {
		help := o.Help
		if o.Type.Kind() != reflect.Bool {
			specs = append(specs, flagSpec{param: o.Name, name: o.Name, usage: help})
			continue
		}
		def, _ := o.Default.(bool)
		specs = append(specs,
			flagSpec{param: o.Name, name: o.Name, usage: joinUsage(help, "(enable "+o.Name+")"), hidden: def},
			flagSpec{param: o.Name, name: "not-" + o.Name, usage: joinUsage(help, "(disable "+o.Name+")"), hidden: !def, noShort: true},
		)
	}
	if kw := d.KwArgs(); kw != "" {
		specs = append(specs, flagSpec{name: kw, usage: "read every following token as key value pairs"})
	}
	shorts := shorthands(specs)

	fs := cmd.Flags()
	for _, o := range d.Optional() {
		if o.Type.Kind() == reflect.Bool {
			def, _ := o.Default.(bool)
			state := &boolState{value: def}
			lf.bools[o.Name] = state
			fs.VarPF(&boolValue{state: state, on: true}, o.Name, shorts[o.Name], "").NoOptDefVal = "true"
			fs.VarPF(&boolValue{state: state, on: false}, "not-"+o.Name, shorts["not-"+o.Name], "").NoOptDefVal = "true"
			cmd.MarkFlagsMutuallyExclusive(o.Name, "not-"+o.Name)
			continue
		}
		v := &argValue{typ: o.Type, def: o.Default}
		lf.values[o.Name] = v
		fs.VarP(v, o.Name, shorts[o.Name], "")
	}
	if kw := d.KwArgs(); kw != "" {
		// Never parsed: splitRemainder cuts it off before cobra sees it.
		fs.BoolP(kw, shorts[kw], false, "")
	}

	for _, s := range specs {
		f := fs.Lookup(s.name)
		f.Usage = s.usage
		f.Hidden = s.hidden
	}
	return lf
}

// options returns the raw values of the flags that were given.
func (lf *leafFlags) options() map[string]string {
	out := make(map[string]string)
	for name, v := range lf.values {
		if v.set {
			out[name] = v.raw
		}
	}
	for name, st := range lf.bools {
		if st.set {
			out[name] = strconv.FormatBool(st.value)
		}
	}
	return out
}

// shorthands assigns a one-letter shorthand to every flag whose first letter
// no other candidate shares and that is not reserved. The --not-x half of a
// bool pair is never a candidate, so -x always means --x.
func shorthands(specs []flagSpec) map[string]string {
	count := make(map[byte]int)
	for _, s := range specs {
		if !s.noShort {
			count[s.name[0]]++
		}
	}
	out := make(map[string]string)
	for _, s := range specs {
		c := s.name[0]
		if s.noShort || count[c] != 1 || reservedShorthands[c] || !isASCIILetter(c) {
			continue
		}
		out[s.name] = string(c)
	}
	return out
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func joinUsage(help, suffix string) string {
	if help == "" {
		return suffix
	}
	return help + " " + suffix
}

// typeName is the value placeholder shown in help for t.
func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	if t == reflect.TypeFor[time.Duration]() {
		return "duration"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "map"
	default:
		return "value"
	}
}

// flagError marks flag parsing failures as argument errors.
func flagError(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%s: %w: %w", cmd.CommandPath(), settings.ErrArgumentConversion, err)
}
