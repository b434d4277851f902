package override // want package:`declarations\(ConfigPath, main\)`

import "dep"

// Under last-write-wins the dependency's ConfigPath replaces this one.
func ConfigPath(home string) string {
	return home + "/local.yaml"
}

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("/root/\.config/app\.yaml"\)`
	dep.ReadFile(ConfigPath("/root"))
}
