package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chemclerk/chemclerk/internal/chemerr"
	"github.com/chemclerk/chemclerk/internal/pubchem"
	"github.com/chemclerk/chemclerk/internal/record"
	"github.com/chemclerk/chemclerk/internal/schema"
)

const qaSystemPrompt = "You are an expert chemist. You will be given the PubChem page about a " +
	"molecule/compound, and your task is to answer the question based on the information of the " +
	"page. Your answer should be accurate and concise, and contain all the information necessary " +
	"to answer the question."

const formatHint = "If searching with SMILES, please input \"SMILES: <SMILES of the molecule/compound>\"; " +
	"if searching with IUPAC name, please input \"IUPAC: <IUPAC name of the molecule/compound>\"; " +
	"if searching with common name, please input \"Name: <common name of the molecule/compound>\"."

// parseIdentifierQuery parses the "<Namespace>: <identifier>" input contract.
func parseIdentifierQuery(query string) (pubchem.Namespace, string, error) {
	nsToken, identifier, found := strings.Cut(query, ":")
	if !found {
		return "", "", chemerr.Newf(chemerr.Input,
			"The input is not in a correct format: missing \":\" separator. %s", formatHint)
	}

	ns, err := pubchem.ParseNamespace(nsToken)
	if err != nil {
		return "", "", chemerr.Newf(chemerr.Input,
			"The input is not in a correct format: %s %s", err.Error(), formatHint)
	}
	return ns, strings.TrimSpace(identifier), nil
}

// userMessage converts an error into the string handed back to the LLM or
// the terminal. Classified errors already carry a user-actionable message;
// anything else is an infrastructure fault and stays a Go error.
func userMessage(err error) (string, error) {
	if _, ok := chemerr.KindOf(err); ok {
		return "Error: " + err.Error(), nil
	}
	return "", err
}

// ---------------------------------------------------------------------------
// CompoundSearchTool
// ---------------------------------------------------------------------------

// CompoundSearchTool resolves a chemical identifier and renders the
// compound's database page as a numbered outline.
type CompoundSearchTool struct {
	client *pubchem.Client
	rules  record.Rules
}

// NewCompoundSearchTool creates a CompoundSearchTool.
func NewCompoundSearchTool(client *pubchem.Client, rules record.Rules) *CompoundSearchTool {
	if rules == nil {
		rules = record.DefaultRules()
	}
	return &CompoundSearchTool{client: client, rules: rules}
}

func (t *CompoundSearchTool) Name() string { return string(ToolCompoundSearch) }
func (t *CompoundSearchTool) Description() string {
	return "Search for molecule/compound information on PubChem, one of the most comprehensive " +
		"databases of chemical molecules and their activities. Input \"representation name: representation\" " +
		"(e.g., \"SMILES: <SMILES>\", \"IUPAC: <IUPAC name>\", or \"Name: <common name>\", one at a time), " +
		"returns the information of the molecule."
}

func (t *CompoundSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Identifier query of the form \"SMILES: <smiles>\", \"IUPAC: <iupac name>\" or \"Name: <common name>\""
			}
		},
		"required": ["query"]
	}`)
}

func (t *CompoundSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	ns, identifier, err := parseIdentifierQuery(query)
	if err != nil {
		return userMessage(err)
	}

	doc, err := t.Run(ctx, ns, identifier)
	if err != nil {
		return userMessage(err)
	}
	return doc, nil
}

// Run resolves the identifier and renders the filtered compound page.
func (t *CompoundSearchTool) Run(ctx context.Context, ns pubchem.Namespace, identifier string) (string, error) {
	cid, err := t.client.ResolveCID(ctx, ns, identifier)
	if err != nil {
		return "", err
	}
	slog.Debug("resolved compound", "namespace", string(ns), "cid", cid)

	return t.RenderCID(ctx, cid)
}

// RenderCID fetches, filters and renders the page for a known compound key.
func (t *CompoundSearchTool) RenderCID(ctx context.Context, cid int64) (string, error) {
	rec, err := t.client.FetchRecord(ctx, cid)
	if err != nil {
		return "", err
	}

	sections := t.rules.Filter(rec.Record.Section)
	doc := record.BuildDocument(sections)
	text := doc.Text()
	if text == "" {
		return "", chemerr.Newf(chemerr.Search,
			"The compound page for CID %d contains no renderable information.", cid)
	}
	return text, nil
}

// ---------------------------------------------------------------------------
// CompoundQATool
// ---------------------------------------------------------------------------

// CompoundQATool renders a compound page and answers a question about it
// with one LLM call.
type CompoundQATool struct {
	search   *CompoundSearchTool
	provider schema.LLMProvider
	opts     schema.ChatOptions
}

// NewCompoundQATool creates a CompoundQATool on top of an existing search tool.
func NewCompoundQATool(search *CompoundSearchTool, provider schema.LLMProvider, opts schema.ChatOptions) *CompoundQATool {
	return &CompoundQATool{search: search, provider: provider, opts: opts}
}

func (t *CompoundQATool) Name() string { return string(ToolCompoundQA) }
func (t *CompoundQATool) Description() string {
	return "Search for molecule/compound information on PubChem and answer a question about it. " +
		"Input \"representation name: representation\" (e.g., \"SMILES: <SMILES>\", \"IUPAC: <IUPAC name>\", " +
		"or \"Name: <common name>\", one at a time), followed by \"Question: <your question about the " +
		"molecule/compound>\", returns the related information."
}

func (t *CompoundQATool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Identifier query followed by a question, e.g. \"SMILES: CCO Question: what is its boiling point?\""
			}
		},
		"required": ["query"]
	}`)
}

func (t *CompoundQATool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)

	if !strings.Contains(query, "Question:") {
		return "Error: The input is not in a correct format. Please input the molecule/compound " +
			"representation followed by the question about the molecule/compound. An example: " +
			"\"SMILES: <SMILES of the molecule/compound> Question: <your question about the molecule/compound>\".", nil
	}
	identifierPart, question, _ := strings.Cut(query, "Question:")
	question = strings.TrimSpace(question)

	ns, identifier, err := parseIdentifierQuery(strings.TrimSpace(identifierPart))
	if err != nil {
		return userMessage(err)
	}

	answer, err := t.Run(ctx, ns, identifier, question)
	if err != nil {
		return userMessage(err)
	}
	return answer, nil
}

// Run renders the compound page and asks the model the user's question over it.
func (t *CompoundQATool) Run(ctx context.Context, ns pubchem.Namespace, identifier, question string) (string, error) {
	doc, err := t.search.Run(ctx, ns, identifier)
	if err != nil {
		return "", err
	}

	conversation := schema.NewMessages()
	conversation.AddSystem(qaSystemPrompt)
	conversation.AddUser(doc + "\n\n\n\nQuestion: " + question)

	resp, err := t.provider.Chat(ctx, conversation, nil, t.opts)
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	if resp.Content == nil {
		return "", chemerr.New(chemerr.Output, "The language model returned no answer. Please try again.")
	}
	return *resp.Content, nil
}
