package main

import (
	"log"

	"github.com/kilianp07/labstaff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("labstaff: %v", err)
	}
}
