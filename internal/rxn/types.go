package rxn

// PathNode is one node of a candidate retrosynthetic route: a molecule, its
// precursors as children, and stock availability. Leaves denote available
// starting materials.
type PathNode struct {
	SequenceID string     `json:"sequenceId,omitempty"`
	SMILES     string     `json:"smiles"`
	Confidence float64    `json:"confidence,omitempty"`
	InStock    bool       `json:"inStock,omitempty"`
	Children   []PathNode `json:"children,omitempty"`
}

// ForwardAttempt is one predicted outcome of a forward reaction.
type ForwardAttempt struct {
	ProductMolecule struct {
		SMILES string `json:"smiles"`
	} `json:"productMolecule"`
	Confidence float64 `json:"confidence,omitempty"`
}

// RetroParams are the search parameters for a retrosynthesis prediction.
type RetroParams struct {
	MaxSteps     int
	NBeams       int
	PruningSteps int
	FAP          float64
	AIModel      string
}

// SingleStepParams is the configuration for single-step retrosynthesis.
func SingleStepParams() RetroParams {
	return RetroParams{MaxSteps: 1}
}

// MultiStepParams is the configuration for automatic multi-step retrosynthesis.
func MultiStepParams() RetroParams {
	return RetroParams{
		MaxSteps:     3,
		NBeams:       10,
		PruningSteps: 2,
		FAP:          0.6,
		AIModel:      "12class-tokens-2021-05-14",
	}
}

// ReactionSettings is the per-node action metadata of a synthesis plan.
type ReactionSettings struct {
	Actions []map[string]any `json:"actions"`
	Product map[string]any   `json:"product"`
}
