package naming

import "strings"

// CleanFileName makes name safe to use as a file name on common file
// systems. Braces are dropped, illegal characters become "_", and surrounding
// spaces and dots are trimmed.
func CleanFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '{' || r == '}':
			continue
		case r < 32 || r == 127 || strings.ContainsRune(`"*/:<>?\|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), " .")
}
