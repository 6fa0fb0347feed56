package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/chemclerk/chemclerk/internal/chemerr"
	"github.com/chemclerk/chemclerk/internal/pubchem"
	"github.com/chemclerk/chemclerk/internal/smiles"
)

func conversionParameters(desc string) json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": desc},
		},
		"required": []string{"query"},
	}
	raw, _ := json.Marshal(schema)
	return raw
}

// ---------------------------------------------------------------------------
// SMILESToIUPACTool
// ---------------------------------------------------------------------------

// SMILESToIUPACTool converts a SMILES string to its preferred IUPAC name.
// Dot-separated multi-component inputs are converted fragment by fragment.
type SMILESToIUPACTool struct {
	client *pubchem.Client
}

func NewSMILESToIUPACTool(client *pubchem.Client) *SMILESToIUPACTool {
	return &SMILESToIUPACTool{client: client}
}

func (t *SMILESToIUPACTool) Name() string { return string(ToolSMILESToIUPAC) }
func (t *SMILESToIUPACTool) Description() string {
	return "Convert a SMILES string to its IUPAC name. Input a single SMILES string, " +
		"returns the IUPAC name of the molecule. For a mixture (dot-separated SMILES), " +
		"each component is named separately."
}

func (t *SMILESToIUPACTool) Parameters() json.RawMessage {
	return conversionParameters("SMILES string of the molecule")
}

func (t *SMILESToIUPACTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)

	if !smiles.IsValid(query) {
		return "Error: The input is not a valid SMILES string. Please double-check it.", nil
	}

	names := make([]string, 0, 1)
	for _, part := range smiles.Split(query) {
		name, err := t.lookupName(ctx, part)
		if err != nil {
			return userMessage(err)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", "), nil
}

func (t *SMILESToIUPACTool) lookupName(ctx context.Context, s string) (string, error) {
	cid, err := t.client.ResolveCID(ctx, pubchem.NamespaceSMILES, s)
	if err != nil {
		return "", err
	}
	props, err := t.client.FetchProperties(ctx, cid)
	if err != nil {
		return "", err
	}
	if props.IUPACName == "" {
		return "", chemerr.Newf(chemerr.Search, "No IUPAC name is recorded for %q.", s)
	}
	return props.IUPACName, nil
}

// ---------------------------------------------------------------------------
// IUPACToSMILESTool
// ---------------------------------------------------------------------------

// IUPACToSMILESTool converts an IUPAC name to the canonical isomeric SMILES.
type IUPACToSMILESTool struct {
	client *pubchem.Client
}

func NewIUPACToSMILESTool(client *pubchem.Client) *IUPACToSMILESTool {
	return &IUPACToSMILESTool{client: client}
}

func (t *IUPACToSMILESTool) Name() string { return string(ToolIUPACToSMILES) }
func (t *IUPACToSMILESTool) Description() string {
	return "Convert an IUPAC name to a SMILES string. Input the IUPAC name of a molecule, " +
		"returns its SMILES representation."
}

func (t *IUPACToSMILESTool) Parameters() json.RawMessage {
	return conversionParameters("IUPAC name of the molecule")
}

func (t *IUPACToSMILESTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	s, err := lookupSMILES(ctx, t.client, pubchem.NamespaceIUPAC, strings.TrimSpace(query))
	if err != nil {
		return userMessage(err)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// NameToSMILESTool
// ---------------------------------------------------------------------------

// NameToSMILESTool converts a common or trade name to the canonical SMILES.
type NameToSMILESTool struct {
	client *pubchem.Client
}

func NewNameToSMILESTool(client *pubchem.Client) *NameToSMILESTool {
	return &NameToSMILESTool{client: client}
}

func (t *NameToSMILESTool) Name() string { return string(ToolNameToSMILES) }
func (t *NameToSMILESTool) Description() string {
	return "Convert a common (trade, trivial) name of a molecule to a SMILES string. " +
		"Input the name of a molecule, returns its SMILES representation."
}

func (t *NameToSMILESTool) Parameters() json.RawMessage {
	return conversionParameters("common name of the molecule")
}

func (t *NameToSMILESTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	s, err := lookupSMILES(ctx, t.client, pubchem.NamespaceName, strings.TrimSpace(query))
	if err != nil {
		return userMessage(err)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// SMILESToFormulaTool
// ---------------------------------------------------------------------------

// SMILESToFormulaTool converts a SMILES string to its molecular formula.
type SMILESToFormulaTool struct {
	client *pubchem.Client
}

func NewSMILESToFormulaTool(client *pubchem.Client) *SMILESToFormulaTool {
	return &SMILESToFormulaTool{client: client}
}

func (t *SMILESToFormulaTool) Name() string { return string(ToolSMILESToFormula) }
func (t *SMILESToFormulaTool) Description() string {
	return "Get the molecular formula of a molecule. Input a single SMILES string, " +
		"returns the molecular formula."
}

func (t *SMILESToFormulaTool) Parameters() json.RawMessage {
	return conversionParameters("SMILES string of the molecule")
}

func (t *SMILESToFormulaTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)

	if !smiles.IsValid(query) {
		return "Error: The input is not a valid SMILES string. Please double-check it.", nil
	}
	if smiles.IsMultiple(query) {
		return "Error: Multiple SMILES strings detected. Please input one molecule at a time.", nil
	}

	cid, err := t.client.ResolveCID(ctx, pubchem.NamespaceSMILES, query)
	if err != nil {
		return userMessage(err)
	}
	props, err := t.client.FetchProperties(ctx, cid)
	if err != nil {
		return userMessage(err)
	}
	if props.MolecularFormula == "" {
		return userMessage(chemerr.Newf(chemerr.Search, "No molecular formula is recorded for %q.", query))
	}
	return props.MolecularFormula, nil
}

func lookupSMILES(ctx context.Context, client *pubchem.Client, ns pubchem.Namespace, identifier string) (string, error) {
	cid, err := client.ResolveCID(ctx, ns, identifier)
	if err != nil {
		return "", err
	}
	props, err := client.FetchProperties(ctx, cid)
	if err != nil {
		return "", err
	}
	if props.IsomericSMILES == "" {
		return "", chemerr.Newf(chemerr.Search, "No SMILES representation is recorded for %q.", identifier)
	}
	return props.IsomericSMILES, nil
}
