package main

import (
	"blogg/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load a .env file if present so the env var backed CLI flags see it
	godotenv.Load()

	cmd.Execute()
}
