package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/tools"
)

var askQuestion string

var askCmd = &cobra.Command{
	Use:   "ask <representation name>: <representation>",
	Short: "Ask a question about a compound",
	Long: "Fetch a compound's PubChem page and answer a question about it, e.g.\n" +
		"  chemclerk ask \"SMILES: CCO\" -q \"What is its boiling point?\"\n" +
		"The question can also be inlined after \"Question:\":\n" +
		"  chemclerk ask \"SMILES: CCO Question: What is its boiling point?\"",
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "Question about the compound")
}

func runAsk(_ *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if askQuestion != "" && !strings.Contains(query, "Question:") {
		query += " Question: " + askQuestion
	}
	return runTool(tools.ToolCompoundQA, query)
}
