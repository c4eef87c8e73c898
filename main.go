package main

import (
	"github.com/NexaPay/NexaPay-Backend/api"
)

var envPath string = "."

func main() {
	server := api.NewServer(envPath)
	server.Start()
}
