package options

// group is a set of boolean options of which at most one may be true.
type group struct {
	name    string
	members []string
}

var (
	attentionGroup = group{
		name:    "attention-mode",
		members: []string{"use_split_cross_attention", "use_pytorch_cross_attention"},
	}
	vramGroup = group{
		name:    "vram-mode",
		members: []string{"highvram", "normalvram", "lowvram", "novram", "cpu"},
	}
	groups = []group{attentionGroup, vramGroup}
)

// validateGroups fails with a UsageError naming the first two members of a
// group that are both set.
func validateGroups(o *Options) error {
	for _, g := range groups {
		first := ""
		for _, key := range g.members {
			if !isSet(o, key) {
				continue
			}
			if first != "" {
				return usageErrorf("argument --%s: not allowed with argument --%s",
					fieldsByKey[key].flagName(), fieldsByKey[first].flagName())
			}
			first = key
		}
	}
	return nil
}

func selected(o *Options, g group) string {
	for _, key := range g.members {
		if isSet(o, key) {
			return key
		}
	}
	return ""
}

func isSet(o *Options, key string) bool {
	b, ok := fieldsByKey[key].ref(o).(*bool)
	return ok && *b
}
