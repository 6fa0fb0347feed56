// Package dependency wires core chemclerk services using go.uber.org/dig.
package dependency

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/chemclerk/chemclerk/internal/agent"
	"github.com/chemclerk/chemclerk/internal/config"
	"github.com/chemclerk/chemclerk/internal/providers"
	"github.com/chemclerk/chemclerk/internal/pubchem"
	"github.com/chemclerk/chemclerk/internal/record"
	"github.com/chemclerk/chemclerk/internal/rxn"
	"github.com/chemclerk/chemclerk/internal/schema"
	"github.com/chemclerk/chemclerk/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider schema.LLMProvider
	pubchem  *pubchem.Client
	rxn      *rxn.Client
	registry *tools.Registry
	runner   *agent.Runner
}

func (c *Container) Provider() schema.LLMProvider { return c.provider }
func (c *Container) PubChem() *pubchem.Client     { return c.pubchem }
func (c *Container) RXN() *rxn.Client             { return c.rxn }
func (c *Container) Registry() *tools.Registry    { return c.registry }
func (c *Container) Runner() *agent.Runner        { return c.runner }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	providersFns := []any{
		func() *config.Config { return cfg },
		newProvider,
		newPubChemClient,
		newRXNClient,
		newSectionRules,
		newRegistry,
		newRunner,
	}
	for _, fn := range providersFns {
		if err := d.Provide(fn); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		pc *pubchem.Client,
		rc *rxn.Client,
		registry *tools.Registry,
		runner *agent.Runner,
	) {
		result = &Container{
			provider: provider,
			pubchem:  pc,
			rxn:      rc,
			registry: registry,
			runner:   runner,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	model := cfg.Agents.Defaults.Model
	result := cfg.MatchProvider(model)

	if result.Provider == nil {
		return nil, fmt.Errorf("no API key configured for model %q, edit %s", model, config.ConfigPath())
	}

	apiBase := result.Provider.APIBase
	if apiBase == "" {
		if spec := providers.FindByName(result.Name); spec != nil {
			apiBase = spec.DefaultAPIBase
		}
	}
	return providers.New(providers.Params{
		APIKey:       result.Provider.APIKey,
		APIBase:      apiBase,
		ExtraHeaders: result.Provider.ExtraHeaders,
		DefaultModel: model,
		ProviderName: result.Name,
	}), nil
}

func newPubChemClient(cfg *config.Config) *pubchem.Client {
	return pubchem.New(cfg.PubChem)
}

func newRXNClient(cfg *config.Config) *rxn.Client {
	return rxn.New(cfg.RXN)
}

func newSectionRules(cfg *config.Config) (record.Rules, error) {
	if cfg.PubChem.SectionRules != "" {
		return record.LoadRules(cfg.PubChem.SectionRules)
	}
	return record.DefaultRules(), nil
}

func newRegistry(
	cfg *config.Config,
	provider schema.LLMProvider,
	pc *pubchem.Client,
	rc *rxn.Client,
	rules record.Rules,
) *tools.Registry {
	defaults := cfg.Agents.Defaults
	opts := schema.NewChatOptions(defaults.Model, defaults.MaxTokens, defaults.Temperature)

	search := tools.NewCompoundSearchTool(pc, rules)

	return tools.NewRegistryBuilder().
		WithTool(search).
		WithTool(tools.NewCompoundQATool(search, provider, opts)).
		WithTool(tools.NewSMILESToIUPACTool(pc)).
		WithTool(tools.NewIUPACToSMILESTool(pc)).
		WithTool(tools.NewNameToSMILESTool(pc)).
		WithTool(tools.NewSMILESToFormulaTool(pc)).
		WithTool(tools.NewForwardSynthesisTool(rc)).
		WithTool(tools.NewRetrosynthesisTool(rc)).
		WithTool(tools.NewSynthesisPlanTool(rc, provider, opts)).
		WithTool(tools.NewLiteratureSearchTool(cfg.Tools.Web.APIKey, cfg.Tools.Web.MaxResults)).
		Build()
}

func newRunner(cfg *config.Config, provider schema.LLMProvider, registry *tools.Registry) *agent.Runner {
	return agent.NewRunner(provider, registry, cfg.Agents.Defaults)
}
