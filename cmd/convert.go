package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/tools"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between compound identifiers",
}

var smilesToIUPACCmd = &cobra.Command{
	Use:   "smiles-to-iupac <SMILES>",
	Short: "SMILES → IUPAC name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runTool(tools.ToolSMILESToIUPAC, strings.Join(args, ""))
	},
}

var iupacToSMILESCmd = &cobra.Command{
	Use:   "iupac-to-smiles <IUPAC name>",
	Short: "IUPAC name → SMILES",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runTool(tools.ToolIUPACToSMILES, strings.Join(args, " "))
	},
}

var nameToSMILESCmd = &cobra.Command{
	Use:   "name-to-smiles <common name>",
	Short: "Common name → SMILES",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runTool(tools.ToolNameToSMILES, strings.Join(args, " "))
	},
}

var smilesToFormulaCmd = &cobra.Command{
	Use:   "smiles-to-formula <SMILES>",
	Short: "SMILES → molecular formula",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runTool(tools.ToolSMILESToFormula, strings.Join(args, ""))
	},
}

func init() {
	convertCmd.AddCommand(smilesToIUPACCmd)
	convertCmd.AddCommand(iupacToSMILESCmd)
	convertCmd.AddCommand(nameToSMILESCmd)
	convertCmd.AddCommand(smilesToFormulaCmd)
}
