package partial // want package:`declarations\(open, Server\.Serve\)`

//autobox:declare args=(path as P) side_effects=(reads_file(P))
func open(path string) {}

type Server struct {
	root string
}

// Parameters and fields stay symbolic; literals around them still fold.

//autobox:entrypoint
func (s *Server) Serve(name string) { // want `Side effect: reads_file\(s\.root \+ "/static/" \+ name\)` `Side effect: reads_file\(name \+ "\.gz"\)`
	open(s.root + "/static/" + name)
	open(name + "." + "gz")
}
