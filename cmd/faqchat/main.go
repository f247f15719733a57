package main

import "github.com/diogo/faqchat/internal/commands"

func main() {
	commands.Execute()
}
