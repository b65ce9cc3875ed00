package main

import (
	"os"

	"github.com/biomed-cmms/cmms-access/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
