package scanner

import "strings"

// hidden reports whether the entry name is filtered by the skip-hidden option.
func hidden(name string, opts Options) bool {
	return opts.SkipHidden && strings.HasPrefix(name, ".")
}
