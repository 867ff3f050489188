package main

import (
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

var rootCmd = cobra.Command{
	Use:     "stackd",
	Short:   "stackd serves bounded growable stacks over http",
	Long:    "stackd serves named bounded growable string stacks over http, and can run a local demo of the stack operations",
	Version: version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
}
