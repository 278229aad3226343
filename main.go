package main

import "github.com/suraj946/goss-up-server/cmd/server"

func main() {
	server.Run()
}
