package options

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Source produces a freshly constructed, validated option set.
type Source interface {
	Resolve() (*Options, error)
}

// CommandLine is a Source that parses raw command-line tokens, not including
// the program name, with a fresh flag set.
type CommandLine struct {
	Args []string
	// Output receives help text. It defaults to io.Discard.
	Output io.Writer
}

// Resolve implements Source. Parse failures are returned as *UsageError,
// except a request for help which is returned as pflag.ErrHelp.
func (c CommandLine) Resolve() (*Options, error) {
	fs := pflag.NewFlagSet("comfyargs", pflag.ContinueOnError)
	if c.Output != nil {
		fs.SetOutput(c.Output)
	} else {
		fs.SetOutput(io.Discard)
	}
	fs.SortFlags = false
	src := Bind(fs)

	if err := fs.Parse(NormalizeArgs(c.Args)); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, &UsageError{Msg: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, usageErrorf("unrecognized arguments: %s", strings.Join(fs.Args(), " "))
	}
	return src.Resolve()
}

// Bind registers every option on fs and returns a Source yielding whatever
// fs has parsed into them. It lets a command tree that owns the flag set
// share the option definitions.
func Bind(fs *pflag.FlagSet) Source {
	b := &bound{opts: Defaults()}
	b.opts.RegisterFlags(fs)
	return b
}

type bound struct {
	opts Options
}

func (b *bound) Resolve() (*Options, error) {
	return finish(b.opts.Clone())
}

// Mapping is a Source built from option names to values. Names may use
// hyphens or underscores. Values may be Go values or cty.Values and are
// converted to the option's type; nil resets an option to its default.
// Options absent from the mapping take their defaults.
type Mapping map[string]any

// Resolve implements Source. Unknown names and values that cannot be
// converted are reported as *UsageError.
func (m Mapping) Resolve() (*Options, error) {
	o := Defaults()

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]string, len(m))
	for _, name := range names {
		key := NormalizeKey(name)
		f, ok := fieldsByKey[key]
		if !ok {
			return nil, usageErrorf("unrecognized option: %s", name)
		}
		if prev, dup := seen[key]; dup {
			return nil, usageErrorf("option %s given more than once (as %s and %s)", key, prev, name)
		}
		seen[key] = name

		v, err := toCtyValue(m[name])
		if err != nil {
			return nil, usageErrorf("argument --%s: %v", f.flagName(), err)
		}
		if err := f.assign(&o, v); err != nil {
			return nil, usageErrorf("argument --%s: %v", f.flagName(), err)
		}
	}
	return finish(&o)
}

func toCtyValue(v any) (cty.Value, error) {
	switch tv := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return tv, nil
	case []any:
		if len(tv) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(tv))
		for i, e := range tv {
			ev, err := toCtyValue(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, err
	}
	return gocty.ToCtyValue(v, ty)
}
