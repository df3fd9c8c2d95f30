package main

import "github.com/mcoot/tourney/internal/cli"

func main() {
	cli.Execute()
}
