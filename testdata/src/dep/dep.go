package dep

//autobox:declare args=(name as N) side_effects=(reads_file(N)) returns=(N)
func ReadFile(name string) string {
	return name
}

func ConfigPath(home string) string {
	return home + "/.config/app.yaml"
}

// Loader reads configuration below a home directory.
type Loader struct{}

func (l Loader) Load(home string) string {
	return ReadFile(ConfigPath(home))
}
