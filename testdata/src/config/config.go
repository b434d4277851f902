package config // want package:`declarations\(fnWithEffects, unknown, main\)`

// The effects of fnWithEffects are asserted; unknown and main are inferred
// from their bodies.

//autobox:declare args=(a as A, b as B) side_effects=(reads_file(A + '/' + B)) returns=(A + '/' + B)
func fnWithEffects(a, b string) string {
	return ""
}

func unknown(a, b string) {
	first := fnWithEffects(a, b)
	fnWithEffects(first, "config_file.json")
}

//autobox:entrypoint
func main() { // want `Side effect: reads_file\("~/config_dir"\)` `Side effect: reads_file\("~/config_dir/config_file.json"\)`
	x := "~"
	y := x
	unknown(y, "config_dir")
}
