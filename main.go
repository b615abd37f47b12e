package main

import "thebits/vscale/cmd"

func main() {
	cmd.Execute()
}
