package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/tools"
)

var predictCmd = &cobra.Command{
	Use:   "predict <reactant SMILES.reactant SMILES...>",
	Short: "Predict the product of a reaction",
	Long: "Predict the product of a chemical reaction from dot-joined reactant SMILES, e.g.\n" +
		"  chemclerk predict \"CCN.CN1C=CC=C1C=O\"",
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func runPredict(_ *cobra.Command, args []string) error {
	return runTool(tools.ToolForwardSynthesis, strings.Join(args, ""))
}
