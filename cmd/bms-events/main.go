package main

import "github.com/adhruv/bms-events/internal/cli"

func main() {
	cli.Execute()
}
