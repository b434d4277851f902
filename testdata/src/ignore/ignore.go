package ignore // want package:`declarations\(open, main\)`

//autobox:declare args=(p as P) side_effects=(reads_file(P), logs(P))
func open(p string) {}

//autobox:entrypoint
func main() { // want `Side effect: logs\("/tmp/a"\)` `Side effect: reads_file\("/tmp/b"\)` `Side effect: logs\("/tmp/b"\)`
	open("/tmp/a") //autobox:ignore reads_file - audited separately

	//autobox:ignore
	open("/tmp/c")

	open("/tmp/b")

	//autobox:ignore // want "unused autobox:ignore directive"
}
