package main

import (
	"os"

	"github.com/datastore-web/datastore/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
