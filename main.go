// Package main is the entry point for the authgate CLI.
package main

import (
	"authgate/cli/cmd"
)

func main() {
	cmd.Execute()
}
