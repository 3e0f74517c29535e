package main

import (
	"os"

	"q.log/pivot/cli"
)

func main() {
	os.Exit(cli.Execute())
}
