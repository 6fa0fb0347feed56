package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/tools"
)

var retroCmd = &cobra.Command{
	Use:   "retro <product SMILES>",
	Short: "Single-step retrosynthesis",
	Long: "List candidate reactant sets for a product, ranked by confidence, e.g.\n" +
		"  chemclerk retro \"CCNCc1cccn1C\"",
	Args: cobra.MinimumNArgs(1),
	RunE: runRetro,
}

func runRetro(_ *cobra.Command, args []string) error {
	return runTool(tools.ToolRetrosynthesis, strings.Join(args, ""))
}
