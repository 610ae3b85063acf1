package main

import (
	"log"

	"github.com/MrSnakeDoc/stash/cmd/stash/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatalf("❌ stash failed: %v", err)
	}
}
