package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/chemclerk/chemclerk/internal/rxn"
	"github.com/chemclerk/chemclerk/internal/schema"
	"github.com/chemclerk/chemclerk/internal/smiles"
)

const planSystemPrompt = "Here is a chemical synthesis described as a json.\nYour task is " +
	"to describe the synthesis, as if you were giving instructions for " +
	"a recipe. Use only the substances, quantities, temperatures and " +
	"in general any action mentioned in the json file. This is your " +
	"only source of information, do not make up anything else. Also, " +
	"add 15mL of DCM as a solvent in the first step. If you ever need " +
	"to refer to the json file, refer to it as \"(by) the tool\". " +
	"However avoid references to it. \nFor this task, give as many " +
	"details as possible.\n"

// formatConfidence renders a path confidence the way chemists read it:
// whole values keep one decimal ("1.0"), everything else prints exact.
func formatConfidence(c float64) string {
	if c == math.Trunc(c) {
		return fmt.Sprintf("%.1f", c)
	}
	return fmt.Sprintf("%g", c)
}

// ---------------------------------------------------------------------------
// ForwardSynthesisTool
// ---------------------------------------------------------------------------

// ForwardSynthesisTool predicts the product of a reaction from dot-joined
// reactant SMILES.
type ForwardSynthesisTool struct {
	client *rxn.Client
}

func NewForwardSynthesisTool(client *rxn.Client) *ForwardSynthesisTool {
	return &ForwardSynthesisTool{client: client}
}

func (t *ForwardSynthesisTool) Name() string { return string(ToolForwardSynthesis) }
func (t *ForwardSynthesisTool) Description() string {
	return "Predict the product of a chemical reaction. Input the SMILES of the reactants " +
		"and reagents separated by a dot '.', returns SMILES of the products."
}

func (t *ForwardSynthesisTool) Parameters() json.RawMessage {
	return conversionParameters("SMILES of the reactants and reagents, separated by '.'")
}

func (t *ForwardSynthesisTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)

	if !smiles.IsValid(query) {
		return "Error: The input contains invalid SMILES. Please double-check.", nil
	}
	if !smiles.IsMultiple(query) {
		return "Error: The input should contain at least two reactants and reagents " +
			"separated by a dot '.'. Please double-check.", nil
	}

	product, err := t.Run(ctx, query)
	if err != nil {
		return userMessage(err)
	}
	return product, nil
}

// Run submits the forward-prediction job and polls it until a product is in.
func (t *ForwardSynthesisTool) Run(ctx context.Context, reactants string) (string, error) {
	if err := t.client.EnsureProject(ctx); err != nil {
		return "", err
	}

	policy := t.client.Policy(10)
	predictionID, err := rxn.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return t.client.PredictReaction(ctx, reactants)
	})
	if err != nil {
		return "", err
	}
	slog.Debug("forward prediction submitted", "prediction_id", predictionID)

	attempts, err := rxn.Do(ctx, policy, func(ctx context.Context) ([]rxn.ForwardAttempt, error) {
		return t.client.ForwardResults(ctx, predictionID)
	})
	if err != nil {
		return "", err
	}
	return attempts[0].ProductMolecule.SMILES, nil
}

// ---------------------------------------------------------------------------
// RetrosynthesisTool
// ---------------------------------------------------------------------------

// RetrosynthesisTool performs single-step retrosynthesis: candidate reactant
// sets for a product, ordered by confidence.
type RetrosynthesisTool struct {
	client *rxn.Client
}

func NewRetrosynthesisTool(client *rxn.Client) *RetrosynthesisTool {
	return &RetrosynthesisTool{client: client}
}

func (t *RetrosynthesisTool) Name() string { return string(ToolRetrosynthesis) }
func (t *RetrosynthesisTool) Description() string {
	return "Conduct single-step retrosynthesis. Input SMILES of product, returns SMILES of " +
		"potential reactants separated by a dot '.' as well as the confidence. Will output " +
		"multiple sets of reactants if applicable."
}

func (t *RetrosynthesisTool) Parameters() json.RawMessage {
	return conversionParameters("SMILES of the product molecule")
}

func (t *RetrosynthesisTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)

	if !smiles.IsValid(query) {
		return "Error: The input contains invalid SMILES. Please double-check.", nil
	}
	if smiles.IsMultiple(query) {
		return "Error: Multiple SMILES strings detected. Please input one product at a time.", nil
	}

	report, err := t.Run(ctx, query)
	if err != nil {
		return userMessage(err)
	}
	return report, nil
}

// Run predicts reactant sets for the product and formats the ranked report.
func (t *RetrosynthesisTool) Run(ctx context.Context, product string) (string, error) {
	paths, err := predictPaths(ctx, t.client, product, rxn.SingleStepParams())
	if err != nil {
		return "", err
	}

	type candidate struct {
		reactants  string
		confidence float64
	}
	candidates := make([]candidate, 0, len(paths))
	for _, path := range paths {
		parts := make([]string, 0, len(path.Children))
		for _, child := range path.Children {
			parts = append(parts, child.SMILES)
		}
		candidates = append(candidates, candidate{
			reactants:  strings.Join(parts, "."),
			confidence: path.Confidence,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	var sb strings.Builder
	verb := "are"
	if len(candidates) == 1 {
		verb = "is"
	}
	fmt.Fprintf(&sb, "There %s %d possible sets of reactants for the given product:\n", verb, len(candidates))
	for idx, c := range candidates {
		fmt.Fprintf(&sb, "%d.\tReactants: %s\tConfidence: %s\n", idx+1, c.reactants, formatConfidence(c.confidence))
	}
	return sb.String(), nil
}

// ---------------------------------------------------------------------------
// SynthesisPlanTool
// ---------------------------------------------------------------------------

// SynthesisPlanTool runs a multi-step retrosynthesis, expands the best route
// into per-step lab actions and narrates the procedure with the LLM.
type SynthesisPlanTool struct {
	client   *rxn.Client
	provider schema.LLMProvider
	opts     schema.ChatOptions
}

func NewSynthesisPlanTool(client *rxn.Client, provider schema.LLMProvider, opts schema.ChatOptions) *SynthesisPlanTool {
	return &SynthesisPlanTool{client: client, provider: provider, opts: opts}
}

func (t *SynthesisPlanTool) Name() string { return string(ToolSynthesisPlan) }
func (t *SynthesisPlanTool) Description() string {
	return "Obtain the synthetic route to a chemical compound. Takes as input the SMILES of " +
		"the product, returns a textual description of how to synthesize it."
}

func (t *SynthesisPlanTool) Parameters() json.RawMessage {
	return conversionParameters("SMILES of the target molecule")
}

func (t *SynthesisPlanTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query, _ := params["query"].(string)
	query = strings.TrimSpace(query)

	if !smiles.IsValid(query) {
		return "Error: The input contains invalid SMILES. Please double-check.", nil
	}
	if smiles.IsMultiple(query) {
		return "Error: Multiple SMILES strings detected. Please input one target molecule at a time.", nil
	}

	plan, err := t.Run(ctx, query)
	if err != nil {
		return userMessage(err)
	}
	return plan, nil
}

// Run predicts routes for the target and narrates the highest-confidence one.
func (t *SynthesisPlanTool) Run(ctx context.Context, target string) (string, error) {
	paths, err := predictPaths(ctx, t.client, target, rxn.MultiStepParams())
	if err != nil {
		return "", err
	}

	best := paths[0]
	for _, p := range paths[1:] {
		if p.Confidence > best.Confidence {
			best = p
		}
	}
	return t.describeRoute(ctx, best)
}

// describeRoute expands a retrosynthetic route into per-step actions and asks
// the model for a lab-procedure narration. Degrades to the raw route when the
// plan expansion is unavailable.
func (t *SynthesisPlanTool) describeRoute(ctx context.Context, route rxn.PathNode) (string, error) {
	policy := t.client.Policy(20)

	synthesisID, err := rxn.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return t.client.CreateSynthesis(ctx, route.SequenceID)
	})
	if err != nil {
		raw, merr := json.Marshal(route)
		if merr != nil {
			return "", err
		}
		return string(raw), nil
	}

	nodeIDs, err := rxn.Do(ctx, policy, func(ctx context.Context) ([]string, error) {
		return t.client.NodeIDs(ctx, synthesisID)
	})
	if err != nil {
		return "Tool error", nil
	}

	steps := make([]*rxn.ReactionSettings, 0, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		nodeID := nodeID
		settings, err := rxn.Do(ctx, policy, func(ctx context.Context) (*rxn.ReactionSettings, error) {
			return t.client.NodeSettings(ctx, synthesisID, nodeID)
		})
		if err != nil {
			continue
		}
		steps = append(steps, settings)
	}

	plan := map[string]any{"number_of_steps": len(steps)}
	for i, step := range steps {
		plan[fmt.Sprintf("Step_%d", i)] = map[string]any{
			"actions": cleanValue(step.Actions),
			"product": cleanValue(step.Product),
		}
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("encode synthesis plan: %w", err)
	}

	conversation := schema.NewMessages()
	conversation.AddUser(planSystemPrompt + string(raw))
	resp, err := t.provider.Chat(ctx, conversation, nil, t.opts)
	if err != nil || resp.Content == nil {
		// Narration is best effort; the plan itself is still useful.
		return string(raw), nil
	}
	return *resp.Content, nil
}

// cleanValue strips empty strings, false booleans and nils from decoded JSON
// so the narration prompt spends tokens on real data only.
func cleanValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if isEmptyValue(item) {
				continue
			}
			out[k] = cleanValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, cleanValue(item))
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, cleanValue(item))
		}
		return out
	default:
		return v
	}
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	}
	return false
}

// predictPaths submits a retrosynthesis job and polls until routes arrive.
func predictPaths(ctx context.Context, client *rxn.Client, product string, params rxn.RetroParams) ([]rxn.PathNode, error) {
	if err := client.EnsureProject(ctx); err != nil {
		return nil, err
	}

	predictionID, err := rxn.Do(ctx, client.Policy(10), func(ctx context.Context) (string, error) {
		return client.PredictRetrosynthesis(ctx, product, params)
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("retrosynthesis submitted", "prediction_id", predictionID)

	return rxn.Do(ctx, client.Policy(20), func(ctx context.Context) ([]rxn.PathNode, error) {
		return client.RetrosynthesisPaths(ctx, predictionID)
	})
}
