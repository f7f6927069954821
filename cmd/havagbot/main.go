package main

import "github.com/fgerlach/havagbot/internal/cli"

func main() {
	cli.Execute()
}
