package main

import "github.com/mvp-joe/classmeta/internal/cli"

func main() {
	cli.Execute()
}
