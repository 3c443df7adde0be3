package main

import (
	"github.com/tacogips/drvgen/internal/cli"
)

func main() {
	cli.Execute()
}
