// Package tools implements the chemistry tool adapters exposed to the LLM
// and the CLI: compound lookup and QA over the compound database, identifier
// conversions, reaction prediction and retrosynthesis, and literature search.
package tools

import (
	"github.com/chemclerk/chemclerk/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolCompoundSearch   ToolName = "compound_search"
	ToolCompoundQA       ToolName = "compound_qa"
	ToolSMILESToIUPAC    ToolName = "smiles_to_iupac"
	ToolIUPACToSMILES    ToolName = "iupac_to_smiles"
	ToolNameToSMILES     ToolName = "name_to_smiles"
	ToolSMILESToFormula  ToolName = "smiles_to_formula"
	ToolForwardSynthesis ToolName = "forward_synthesis"
	ToolRetrosynthesis   ToolName = "retrosynthesis"
	ToolSynthesisPlan    ToolName = "synthesis_plan"
	ToolLiteratureSearch ToolName = "literature_search"
)

// Registry holds a set of named tools and exposes them for execution.
type Registry struct {
	tools map[string]schema.Tool
}

// GetTool returns the tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	return r.tools[string(name)]
}

// GetAll returns a ToolList over every registered tool.
func (r *Registry) GetAll() schema.ToolList {
	list := make([]schema.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	return schema.NewToolList(list)
}
