package main

import "github.com/fical/fi-calculator/internal/cli"

func main() {
	cli.Execute()
}
