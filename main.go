package main

import "github.com/they4kman/voxelsweep/cmd"

func main() {
	cmd.Execute()
}
