package main

import (
	"github.com/grid2go/grid2go/cmd"
)

func main() {
	cmd.Execute()
}
