package main

import "blogapi/cmd/blogapi/commands"

func main() {
	commands.Execute()
}
