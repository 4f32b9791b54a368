// Package main is the entry point for the tafscan CLI.
package main

import "tafscan.dev/pkg/tafscan/cmd"

func main() {
	cmd.Execute()
}
