package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/tools"
)

const toolTimeout = 5 * time.Minute

var searchCmd = &cobra.Command{
	Use:   "search <representation name>: <representation>",
	Short: "Look up a compound on PubChem",
	Long: "Look up a compound on PubChem and print its page as a numbered outline.\n" +
		"The query names the representation first, e.g.\n" +
		"  chemclerk search \"SMILES: CC(=O)Oc1ccccc1C(=O)O\"\n" +
		"  chemclerk search \"Name: aspirin\"",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(_ *cobra.Command, args []string) error {
	return runTool(tools.ToolCompoundSearch, strings.Join(args, " "))
}

// runTool executes one registered tool against a query string and prints the
// result. Tool failures caused by user input come back as result text, not
// errors, so the exit status stays zero for those.
func runTool(name tools.ToolName, query string) error {
	return runToolWithTimeout(name, query, toolTimeout)
}

func runToolWithTimeout(name tools.ToolName, query string, timeout time.Duration) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	tool := container.Registry().GetTool(name)
	if tool == nil {
		return fmt.Errorf("tool %q is not registered", name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := tool.Execute(ctx, map[string]any{"query": query})
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}
