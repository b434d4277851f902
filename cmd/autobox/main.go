// Command autobox reports the side effects reachable from entry points.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/mpyw/autobox"
)

func main() {
	singlechecker.Main(autobox.Analyzer)
}
