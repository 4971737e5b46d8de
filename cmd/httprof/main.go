package main

import (
	"github.com/dkorittki/httprof/cmd"
)

func main() {
	cmd.Execute()
}
