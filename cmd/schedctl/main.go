package main

import "github.com/mcoot/sportsched/internal/cli"

func main() {
	cli.Execute()
}
