package main

import "github.com/mcoot/minegrid/internal/cli"

func main() {
	cli.Execute()
}
