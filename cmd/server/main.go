package main

import "shifthub/internal/app/server"

func main() {
	server.Run()
}
