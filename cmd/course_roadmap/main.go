// Package main provides the entry point for the course roadmap CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "course_roadmap",
	Short: "AI course recommendations and learning roadmap generator",
	Long: `course_roadmap asks Google Gemini for up to 8 courses on a topic and draws an
8-step learning roadmap as a PNG image.

Set GEMINI_API_KEY_1 (or GEMINI_API_KEY_2 / GEMINI_API_KEY) in the environment or a .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
