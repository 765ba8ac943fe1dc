// ctags generates editor tag files for Ruby projects. A line-oriented
// scanner extracts class, module, method and constant definitions; an
// optional daemon watches the tree and keeps the tags file fresh.
package main

import (
	"os"

	"github.com/puretechnyc/ctags/cmd/ctags/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
