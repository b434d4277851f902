package unknown // want package:`declarations\(main\)`

// Fetcher has no body to infer from and nothing declares its effects.
type Fetcher interface {
	Fetch(url string) string
}

//autobox:entrypoint
func main() {
	var f Fetcher
	body := f.Fetch("https://example.com") // want `unknown-function: unknown function Fetcher\.Fetch treated as opaque`
	f.Fetch(body)
}
