package unsupported // want package:`declarations\(read, load, main\)`

//autobox:declare args=(p as P) side_effects=(reads_file(P))
func read(p string) {}

func load(dir string) {
	read(dir)
	if dir == "" { // want `unsupported: load: unsupported if statement, inference aborted`
		read("/")
	}
}

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("/var"\)`
	load("/etc")
	read("/var")
}
