package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/tools"
)

var planCmd = &cobra.Command{
	Use:   "plan <target SMILES>",
	Short: "Multi-step synthesis plan",
	Long: "Find a multi-step synthetic route to a target molecule and describe the\n" +
		"procedure in natural language, e.g.\n" +
		"  chemclerk plan \"CC(=O)Oc1ccccc1C(=O)O\"",
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func runPlan(_ *cobra.Command, args []string) error {
	// Multi-step jobs poll for a long time.
	return runToolWithTimeout(tools.ToolSynthesisPlan, strings.Join(args, ""), 30*time.Minute)
}
