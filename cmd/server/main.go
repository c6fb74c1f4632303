package main

import (
	"github.com/KnowYourLines/blabhear-backend-archive-3/internal/server"
)

func main() {
	server.NewServer().Run()
}
