package main

import (
	"cashflow/internal/app"
	"log"
)

func main() {
	if err := app.NewApp().Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
