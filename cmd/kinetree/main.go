// Package main is the kinetree CLI command itself.
package main

import (
	"log"
	"os"

	"github.com/kinetree/kinetree/cli"
)

func main() {
	if err := cli.NewApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
