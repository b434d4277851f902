// Code generated by hand for tests. DO NOT EDIT.

package generated

//autobox:declare args=(p as P) side_effects=(reads_file(P))
func read(p string) {}

//autobox:entrypoint
func main() {
	read("/never/reported")
}
