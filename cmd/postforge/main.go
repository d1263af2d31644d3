package main

import (
	"postforge/cmd/handlers"
	"postforge/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
