package main

import "github.com/lepinkainen/reelscan/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
