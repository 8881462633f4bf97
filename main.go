package main

import (
	"github.com/phage-dynamics/ptoh/cmd"
)

func main() {
	cmd.Execute()
}
