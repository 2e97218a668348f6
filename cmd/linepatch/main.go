package main

import (
	"os"

	"github.com/linepatch/linepatch/internal/cli"
)

func main() {
	code, _ := cli.Run(os.Args, nil)
	os.Exit(code)
}
