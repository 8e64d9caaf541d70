package main

import (
	"github.com/osmflex/osmflex/cmd"
)

func main() {
	cmd.Main(cmd.PrintCmds)
}
