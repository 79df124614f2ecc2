package main

import (
	"fmt"
	"os"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
