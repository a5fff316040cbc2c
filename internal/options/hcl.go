package options

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/comfyargs/internal/fsutil"
)

// DecodeHCL reads an override file made of top-level attributes, such as
//
//	port        = 9000
//	auto_launch = true
//	extra_model_paths_config = ["a.yaml", "b.yaml"]
//
// into a Mapping. Blocks are rejected. Attribute values are not validated
// here; that happens when the Mapping is resolved.
func DecodeHCL(filename string, src []byte) (Mapping, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	m := make(Mapping, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %s in %s: %w", name, filename, diags)
		}
		m[name] = val
	}
	return m, nil
}

// LoadHCLOverrides decodes every path in order and merges the results, later
// files overriding earlier ones. A directory contributes all of its .hcl
// files in lexical order.
func LoadHCLOverrides(paths ...string) (Mapping, error) {
	merged := Mapping{}
	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}
			m, err := DecodeHCL(file, src)
			if err != nil {
				return nil, err
			}
			for name, v := range m {
				key := NormalizeKey(name)
				for existing := range merged {
					if NormalizeKey(existing) == key {
						delete(merged, existing)
					}
				}
				merged[name] = v
			}
		}
	}
	return merged, nil
}
