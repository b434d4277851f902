package locals // want package:`declarations\(read, main\)`

//autobox:declare args=(p as P) side_effects=(reads_file(P))
func read(p string) {}

// Neither init nor blank functions can be called, so they get no spec.

func init() {
	read("/init/a")
}

func init() {
	read("/init/b")
}

func _() {
	read("/blank")
}

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("/b"\)` `Side effect: reads_file\("/a"\)` `Side effect: reads_file\("/y"\)` `Side effect: reads_file\("/x"\)`
	p := "/a"
	{
		p := "/b"
		read(p)
	}
	read(p)

	x, y := "/x", "/y"
	x, y = y, x
	read(x)
	read(y)
}
