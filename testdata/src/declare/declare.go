package declare // want package:`declarations\(resolve, Store\.Put, both, main\)`

//autobox:declare args=(host as H, path as P) side_effects=(eval(H + P) as U, net_connect(H), http_get(U) as body) returns=(body)
func resolve(path, host string) string {
	return ""
}

type Store struct{}

//autobox:declare args=(key as K, value as V) side_effects=(writes_file('/data/' + K, V))
func (Store) Put(key, value string) {}

//autobox:declare side_effects=(reads_file(missing))
func broken(name string) {} // want `invalid autobox:declare directive: .*unknown name "missing"`

//autobox:declare returns=(name)
//autobox:infer
func both(name string) string { // want `declare\.both is both declared and marked for inference; the declaration wins`
	return name
}

//autobox:entrypoint
func main() { // want `Side effect: net_connect\("example\.com"\)` `Side effect: http_get\("example\.com/index"\)` `Side effect: writes_file\("/data/page", \$body\)`
	var s Store
	page := resolve("/index", "example.com")
	s.Put("page", page)
}
