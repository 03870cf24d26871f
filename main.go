package main

import (
	"github.com/futurehomeno/edge-vwcarnet-adapter/cmd"
)

func main() {
	cmd.Execute()
}
