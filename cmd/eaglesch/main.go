package main

import "github.com/openboardtools/eaglesch/cmd/eaglesch/cmd"

func main() {
	cmd.Execute()
}
