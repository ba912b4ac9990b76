// File: /main.go
package main

import (
	"fitcrew-api/cmd"
	"os"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
