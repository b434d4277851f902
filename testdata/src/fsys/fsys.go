package fsys

// The bodies below are placeholders; decls.yaml declares the effects.

func Read(dir, name string) string {
	return ""
}

func Append(dst *string, s string) {
	*dst += s
}
