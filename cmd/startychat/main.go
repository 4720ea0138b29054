// Command startychat is a terminal client for the Starty chat service.
package main

import "github.com/diogo/startychat/internal/commands"

func main() {
	commands.Execute()
}
