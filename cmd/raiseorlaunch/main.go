package main

import "github.com/open-dynaMIX/raiseorlaunch/cmd/raiseorlaunch/commands"

func main() {
	commands.Execute()
}
