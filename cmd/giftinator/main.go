// Package main provides the entry point for the Giftinator HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "giftinator",
	Short: "Giftinator HTTP API Server",
	Long:  "Giftinator runs a conversational gift interview against an LLM oracle and serves archetype reveals with shoppable recommendations via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
