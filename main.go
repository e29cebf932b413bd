package main

import "github.com/tkoide/isekadle/cmd"

func main() {
	cmd.Execute()
}
