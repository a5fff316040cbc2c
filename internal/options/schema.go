package options

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// field describes one option: its persisted key, its cty type and a
// reference to the struct field holding it. The same table drives the flag
// set, mapping decoding and the JSON document.
type field struct {
	key string
	ty  cty.Type
	ref func(o *Options) any
}

// flagName returns the command-line spelling of the field.
func (f field) flagName() string {
	return strings.ReplaceAll(f.key, "_", "-")
}

// value returns the field's current value in o as a cty.Value of f.ty.
func (f field) value(o *Options) (cty.Value, error) {
	return gocty.ToCtyValue(f.ref(o), f.ty)
}

// assign converts v to the field's type and stores it in o. A null value
// resets the field to its default.
func (f field) assign(o *Options, v cty.Value) error {
	if v.IsNull() {
		def := Defaults()
		dv, err := f.value(&def)
		if err != nil {
			return err
		}
		return gocty.FromCtyValue(dv, f.ref(o))
	}
	if !v.IsWhollyKnown() {
		return fmt.Errorf("value must be known")
	}
	converted, err := convert.Convert(v, f.ty)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, f.ref(o))
}

var fields = []field{
	{key: "listen", ty: cty.String, ref: func(o *Options) any { return &o.Listen }},
	{key: "port", ty: cty.Number, ref: func(o *Options) any { return &o.Port }},
	{key: "enable_cors_header", ty: cty.String, ref: func(o *Options) any { return &o.EnableCORSHeader }},
	{key: "extra_model_paths_config", ty: cty.List(cty.String), ref: func(o *Options) any { return &o.ExtraModelPathsConfig }},
	{key: "output_directory", ty: cty.String, ref: func(o *Options) any { return &o.OutputDirectory }},
	{key: "auto_launch", ty: cty.Bool, ref: func(o *Options) any { return &o.AutoLaunch }},
	{key: "cuda_device", ty: cty.Number, ref: func(o *Options) any { return &o.CUDADevice }},
	{key: "dont_upcast_attention", ty: cty.Bool, ref: func(o *Options) any { return &o.DontUpcastAttention }},
	{key: "force_fp32", ty: cty.Bool, ref: func(o *Options) any { return &o.ForceFP32 }},
	{key: "directml", ty: cty.Number, ref: func(o *Options) any { return &o.DirectML }},
	{key: "use_split_cross_attention", ty: cty.Bool, ref: func(o *Options) any { return &o.UseSplitCrossAttention }},
	{key: "use_pytorch_cross_attention", ty: cty.Bool, ref: func(o *Options) any { return &o.UsePytorchCrossAttention }},
	{key: "disable_xformers", ty: cty.Bool, ref: func(o *Options) any { return &o.DisableXformers }},
	{key: "highvram", ty: cty.Bool, ref: func(o *Options) any { return &o.HighVRAM }},
	{key: "normalvram", ty: cty.Bool, ref: func(o *Options) any { return &o.NormalVRAM }},
	{key: "lowvram", ty: cty.Bool, ref: func(o *Options) any { return &o.LowVRAM }},
	{key: "novram", ty: cty.Bool, ref: func(o *Options) any { return &o.NoVRAM }},
	{key: "cpu", ty: cty.Bool, ref: func(o *Options) any { return &o.CPU }},
	{key: "dont_print_server", ty: cty.Bool, ref: func(o *Options) any { return &o.DontPrintServer }},
	{key: "quick_test_for_ci", ty: cty.Bool, ref: func(o *Options) any { return &o.QuickTestForCI }},
	{key: "windows_standalone_build", ty: cty.Bool, ref: func(o *Options) any { return &o.WindowsStandaloneBuild }},
}

var fieldsByKey = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.key] = f
	}
	return m
}()

// NormalizeKey maps an option name in either spelling (auto-launch or
// auto_launch, with or without leading dashes) to its persisted key.
func NormalizeKey(name string) string {
	return strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_")
}

// Schema returns the object type of the persisted document.
func Schema() cty.Type {
	attrs := make(map[string]cty.Type, len(fields))
	for _, f := range fields {
		attrs[f.key] = f.ty
	}
	return cty.Object(attrs)
}
