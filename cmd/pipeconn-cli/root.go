// Package main implements pipeconn-cli, an interactive client and
// pipelined load generator for a pipeconn.Connection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pipeconn-cli",
	Short: "A CLI for the pipeconn asynchronous pipelined Redis connection",
	Long:  "pipeconn-cli drives a pipeconn.Connection interactively or under synthetic load.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
