package main

import "clipsmith/internal/cli"

func main() {
	cli.Execute()
}
