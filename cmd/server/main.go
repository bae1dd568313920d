package main

import (
	"log"

	handler "project-mcp-backend/api"
)

func main() {
	if err := handler.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
