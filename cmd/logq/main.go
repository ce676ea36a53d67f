package main

import "github.com/V4T54L/logviewer/internal/cli"

func main() {
	cli.Execute()
}
