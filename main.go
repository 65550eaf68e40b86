package main

import (
	"os"

	"github.com/jonesrussell/philosophy/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
