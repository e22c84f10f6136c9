package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp(os.Stdout).rootCmd().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
