package main

import (
	"os"

	"github.com/stencilworks/stencil/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
