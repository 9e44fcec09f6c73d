package main

import "github.com/safar/ekart/cmd/ekart/commands"

func main() {
	commands.Execute()
}
