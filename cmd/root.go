// Package cmd implements the chemclerk CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/config"
	"github.com/chemclerk/chemclerk/internal/dependency"
)

const version = "0.1.0"
const logo = "⚗️"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "chemclerk",
	Short: logo + " chemclerk — Chemistry Assistant",
	Long:  logo + " chemclerk — chemistry tools and an LLM agent over PubChem and reaction prediction",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(retroCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildContainer loads the config file and wires the service container.
func buildContainer() (*dependency.Container, error) {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return dependency.New(cfg)
}
