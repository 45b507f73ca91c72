// Package main is the entry point for the autocov CLI.
package main

import "autocov.dev/pkg/autocov/cmd"

func main() {
	cmd.Execute()
}
