package cycle // want package:`declarations\(read, walk, main\)`

//autobox:declare args=(p as P) side_effects=(reads_file(P))
func read(p string) {}

func walk(dir string) {
	read(dir)
	walk(dir + "/sub") // want `cycle: recursive call to walk from walk cut`
}

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("/srv"\)`
	walk("/srv")
}
