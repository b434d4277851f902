package crossfacts // want package:`declarations\(main\)`

import "dep"

// Effects of dep come from the facts it exported.

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("/home/app/\.config/app\.yaml"\)` `Side effect: reads_file\("/home/app/\.config/app\.yaml\.bak"\)`
	var l dep.Loader
	home := "/home/app"
	cfg := l.Load(home)
	dep.ReadFile(cfg + ".bak")
}
