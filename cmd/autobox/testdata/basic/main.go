package main

import "example.com/basic/internal/store"

//autobox:declare args=(a as A, b as B) side_effects=(reads_file(A + '/' + B)) returns=(A + '/' + B)
func fnWithEffects(a, b string) string {
	return a + "/" + b
}

func unknown(a, b string) {
	first := fnWithEffects(a, b)
	fnWithEffects(first, "config_file.json")
}

//autobox:entrypoint
func main() {
	x := "~"
	y := x
	unknown(y, "config_dir")
	store.Save("~/cache")
}
