package main

import "github.com/ticketline/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
