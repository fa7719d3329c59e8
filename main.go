package main

import "github.com/Norgate-AV/kfxc/cmd"

func main() {
	cmd.Execute()
}
