package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitOnError(err)
		os.Exit(1)
	}
}
