package main

import (
	"github.com/mjwurtz/flexgo/cmd"
)

func main() {
	cmd.Execute()
}
