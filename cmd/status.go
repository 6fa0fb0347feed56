package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chemclerk/chemclerk/internal/config"
	"github.com/chemclerk/chemclerk/internal/providers"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show chemclerk status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s chemclerk Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Model:     %s\n\n", cfg.Agents.Defaults.Model)

	fmt.Println("Services:")
	fmt.Printf("  %-20s %s\n", "PubChem", cfg.PubChem.RESTBase)
	rxnMark := "(no API key)"
	if cfg.RXN.APIKey != "" {
		rxnMark = "✓"
	}
	fmt.Printf("  %-20s %s %s\n", "Reaction prediction", cfg.RXN.APIBase, rxnMark)
	webMark := "(not set)"
	if cfg.Tools.Web.APIKey != "" {
		webMark = "✓"
	}
	fmt.Printf("  %-20s %s\n\n", "Literature search", webMark)

	fmt.Println("Providers:")
	for _, spec := range providers.PROVIDERS {
		p := cfg.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		label := spec.Label()
		if p.APIKey != "" {
			fmt.Printf("  %-20s ✓\n", label)
		} else {
			fmt.Printf("  %-20s (not set)\n", label)
		}
	}
	return nil
}
