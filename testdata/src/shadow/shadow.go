package shadow // want package:`declarations\(ConfigPath, main\)`

import "dep"

// ConfigPath shares its name with dep.ConfigPath; the local one wins.
func ConfigPath(home string) string {
	return home + "/local.yaml"
}

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("/root/local\.yaml"\)`
	dep.ReadFile(ConfigPath("/root"))
}
