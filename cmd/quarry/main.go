package main

import (
	"os"

	"github.com/mkarlsen/quarry/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
