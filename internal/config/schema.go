// Package config defines the configuration schema for chemclerk.
//
// Config lives at ~/.chemclerk/config.json. JSON keys use camelCase.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

// ProvidersConfig holds credentials for all supported LLM providers.
type ProvidersConfig struct {
	Custom     ProviderConfig `json:"custom"`
	Anthropic  ProviderConfig `json:"anthropic"`
	OpenAI     ProviderConfig `json:"openai"`
	OpenRouter ProviderConfig `json:"openrouter"`
	DeepSeek   ProviderConfig `json:"deepseek"`
	Groq       ProviderConfig `json:"groq"`
}

// AgentDefaults holds default values for LLM-backed behaviour: the QA tool,
// the synthesis narrator and the agent loop.
type AgentDefaults struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	MaxToolIter int     `json:"maxToolIterations"`
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Model:       "openai/gpt-4o",
		MaxTokens:   4096,
		Temperature: 0.1,
		MaxToolIter: 15,
	}
}

// AgentsConfig wraps agent defaults.
type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
}

func defaultAgentsConfig() AgentsConfig {
	return AgentsConfig{Defaults: defaultAgentDefaults()}
}

// PubChemConfig configures the compound database client.
type PubChemConfig struct {
	ViewBase    string `json:"viewBase"`    // PUG View: full compound records
	RESTBase    string `json:"restBase"`    // PUG REST: search and properties
	TimeoutSecs int    `json:"timeoutSeconds"`
	// SectionRules optionally points at a YAML file overriding the built-in
	// section-filter rules. Empty means use the embedded defaults.
	SectionRules string `json:"sectionRules,omitempty"`
}

func defaultPubChemConfig() PubChemConfig {
	return PubChemConfig{
		ViewBase:    "https://pubchem.ncbi.nlm.nih.gov/rest/pug_view",
		RESTBase:    "https://pubchem.ncbi.nlm.nih.gov/rest/pug",
		TimeoutSecs: 30,
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c PubChemConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// RXNConfig configures the reaction-prediction client.
type RXNConfig struct {
	APIKey           string `json:"apiKey"`
	APIBase          string `json:"apiBase"`
	ProjectName      string `json:"projectName"`
	MaxAttempts      int    `json:"maxAttempts"`      // retry ceiling for submit/poll
	PollIntervalSecs int    `json:"pollIntervalSeconds"`
	TimeoutSecs      int    `json:"timeoutSeconds"`
}

func defaultRXNConfig() RXNConfig {
	return RXNConfig{
		APIBase:          "https://rxn.res.ibm.com",
		ProjectName:      "chemclerk",
		MaxAttempts:      10,
		PollIntervalSecs: 5,
		TimeoutSecs:      60,
	}
}

// PollInterval returns the fixed sleep between poll attempts.
func (c RXNConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// Timeout returns the HTTP timeout as a duration.
func (c RXNConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// WebSearchConfig configures the literature search tool.
type WebSearchConfig struct {
	APIKey     string `json:"apiKey"`
	MaxResults int    `json:"maxResults"`
}

// ToolsConfig holds per-tool settings.
type ToolsConfig struct {
	Web WebSearchConfig `json:"web"`
}

func defaultToolsConfig() ToolsConfig {
	return ToolsConfig{Web: WebSearchConfig{MaxResults: 5}}
}

// Config is the root configuration object.
type Config struct {
	Agents    AgentsConfig    `json:"agents"`
	Providers ProvidersConfig `json:"providers"`
	PubChem   PubChemConfig   `json:"pubchem"`
	RXN       RXNConfig       `json:"rxn"`
	Tools     ToolsConfig     `json:"tools"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Agents:  defaultAgentsConfig(),
		PubChem: defaultPubChemConfig(),
		RXN:     defaultRXNConfig(),
		Tools:   defaultToolsConfig(),
	}
}

// ProviderByName returns the ProviderConfig for a registry name, or nil.
func (c *Config) ProviderByName(name string) *ProviderConfig {
	switch strings.ToLower(name) {
	case "custom":
		return &c.Providers.Custom
	case "anthropic":
		return &c.Providers.Anthropic
	case "openai":
		return &c.Providers.OpenAI
	case "openrouter":
		return &c.Providers.OpenRouter
	case "deepseek":
		return &c.Providers.DeepSeek
	case "groq":
		return &c.Providers.Groq
	}
	return nil
}

// DataDir returns the chemclerk data directory: ~/.chemclerk.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chemclerk"
	}
	return filepath.Join(home, ".chemclerk")
}

// ConfigPath returns the default configuration file path: ~/.chemclerk/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}
