package main

import (
	"os"

	"github.com/newline-cinema/booking-server/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
