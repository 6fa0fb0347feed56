// Package rxn is a client for an IBM RXN-style reaction-prediction service:
// forward reaction prediction, retrosynthesis and synthesis-plan jobs, all
// driven by a submit → poll protocol wrapped in a shared retry policy.
package rxn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chemclerk/chemclerk/internal/chemerr"
	"github.com/chemclerk/chemclerk/internal/config"
)

const (
	submitFailedMessage = "The tool failed to predict the reaction. Maybe the input is invalid. " +
		"Please make sure the input is valid SMILES of reactants separated by dot '.' and try again."
	resultsMissingMessage = "Error in obtaining the results. Maybe the input is invalid. " +
		"Please make sure the input is valid SMILES and try again."
)

// Client calls the reaction-prediction API. Construct once at startup and
// thread it through constructors; EnsureProject is safe for concurrent use.
type Client struct {
	apiKey       string
	base         string
	projectName  string
	pollInterval time.Duration
	maxAttempts  int
	httpClient   *http.Client

	projectOnce sync.Once
	projectID   string
	projectErr  error
}

// New builds a Client from config. No remote call is made until the first
// operation needs the project.
func New(cfg config.RXNConfig) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	interval := cfg.PollInterval()
	if interval < 0 {
		interval = 0
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 10
	}
	return &Client{
		apiKey:       cfg.APIKey,
		base:         strings.TrimRight(cfg.APIBase, "/"),
		projectName:  cfg.ProjectName,
		pollInterval: interval,
		maxAttempts:  attempts,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Policy returns the retry policy used for this client's job calls, with the
// given attempt ceiling. Transient job errors (Process and Output kinds) are
// retryable; everything else propagates immediately.
func (c *Client) Policy(attempts int) Policy {
	if attempts <= 0 {
		attempts = c.maxAttempts
	}
	return Policy{
		Attempts: attempts,
		Delay:    c.pollInterval,
		Retryable: func(err error) bool {
			return chemerr.Is(err, chemerr.Process) || chemerr.Is(err, chemerr.Output)
		},
	}
}

// EnsureProject creates the remote project on first use and reuses it after.
func (c *Client) EnsureProject(ctx context.Context) error {
	c.projectOnce.Do(func() {
		var body struct {
			Payload struct {
				ID string `json:"id"`
			} `json:"payload"`
		}
		err := c.postJSON(ctx, "/api/v1/projects",
			map[string]any{"name": c.projectName}, &body)
		if err != nil {
			c.projectErr = err
			return
		}
		if body.Payload.ID == "" {
			c.projectErr = chemerr.New(chemerr.Process, "The prediction service did not return a project id.")
			return
		}
		c.projectID = body.Payload.ID
	})
	return c.projectErr
}

// ---------------------------------------------------------------------------
// Forward reaction prediction
// ---------------------------------------------------------------------------

// PredictReaction submits a forward-prediction job for dot-joined reactant
// SMILES and returns the prediction id.
func (c *Client) PredictReaction(ctx context.Context, reactants string) (string, error) {
	var body struct {
		PredictionID string `json:"prediction_id"`
	}
	err := c.postJSON(ctx, "/api/v1/predictions/forward",
		map[string]any{"reactants": reactants, "projectId": c.projectID}, &body)
	if err != nil {
		return "", err
	}
	if body.PredictionID == "" {
		return "", chemerr.New(chemerr.Process, submitFailedMessage)
	}
	return body.PredictionID, nil
}

// ForwardResults polls a forward-prediction job once. A payload with at least
// one attempt is success; anything else is a transient Output failure the
// retry policy will try again.
func (c *Client) ForwardResults(ctx context.Context, predictionID string) ([]ForwardAttempt, error) {
	var body struct {
		Response struct {
			Payload *struct {
				Attempts []ForwardAttempt `json:"attempts"`
			} `json:"payload"`
		} `json:"response"`
	}
	err := c.getJSONBody(ctx, "/api/v1/predictions/forward/"+predictionID, &body)
	if err != nil {
		return nil, err
	}
	if body.Response.Payload == nil || len(body.Response.Payload.Attempts) == 0 {
		return nil, chemerr.New(chemerr.Output, resultsMissingMessage)
	}
	return body.Response.Payload.Attempts, nil
}

// ---------------------------------------------------------------------------
// Retrosynthesis
// ---------------------------------------------------------------------------

// PredictRetrosynthesis submits a retrosynthesis job for a product SMILES
// with the given search parameters and returns the prediction id.
func (c *Client) PredictRetrosynthesis(ctx context.Context, product string, params RetroParams) (string, error) {
	payload := map[string]any{
		"product":   product,
		"maxSteps":  params.MaxSteps,
		"projectId": c.projectID,
	}
	if params.NBeams > 0 {
		payload["nBeams"] = params.NBeams
	}
	if params.PruningSteps > 0 {
		payload["pruningSteps"] = params.PruningSteps
	}
	if params.FAP > 0 {
		payload["fap"] = params.FAP
	}
	if params.AIModel != "" {
		payload["aiModel"] = params.AIModel
	}

	var body struct {
		PredictionID string `json:"prediction_id"`
	}
	if err := c.postJSON(ctx, "/api/v1/retrosynthesis", payload, &body); err != nil {
		return "", err
	}
	if body.PredictionID == "" {
		return "", chemerr.New(chemerr.Process, submitFailedMessage)
	}
	return body.PredictionID, nil
}

// RetrosynthesisPaths polls a retrosynthesis job once. Present paths are
// success; an explicit PROCESSING status sleeps an extra backoff before
// reporting a transient failure; anything else is a transient failure too.
func (c *Client) RetrosynthesisPaths(ctx context.Context, predictionID string) ([]PathNode, error) {
	var body struct {
		Status              string     `json:"status"`
		RetrosyntheticPaths []PathNode `json:"retrosynthetic_paths"`
	}
	err := c.getJSONBody(ctx, "/api/v1/retrosynthesis/"+predictionID, &body)
	if err != nil {
		return nil, err
	}
	if len(body.RetrosyntheticPaths) > 0 {
		return body.RetrosyntheticPaths, nil
	}
	if body.Status == "PROCESSING" {
		if err := sleepCtx(ctx, 2*c.pollInterval); err != nil {
			return nil, err
		}
	}
	return nil, chemerr.New(chemerr.Output, resultsMissingMessage)
}

// ---------------------------------------------------------------------------
// Synthesis plans
// ---------------------------------------------------------------------------

// CreateSynthesis turns a retrosynthetic sequence into a synthesis plan and
// returns the synthesis id.
func (c *Client) CreateSynthesis(ctx context.Context, sequenceID string) (string, error) {
	var body struct {
		SynthesisID string `json:"synthesis_id"`
	}
	err := c.postJSON(ctx, "/api/v1/synthesis",
		map[string]any{"sequenceId": sequenceID}, &body)
	if err != nil {
		return "", err
	}
	if body.SynthesisID == "" {
		return "", chemerr.New(chemerr.Process, "The prediction service did not return a synthesis id.")
	}
	return body.SynthesisID, nil
}

// NodeIDs lists the reaction nodes of a synthesis plan.
func (c *Client) NodeIDs(ctx context.Context, synthesisID string) ([]string, error) {
	var ids []string
	err := c.getJSONBody(ctx, "/api/v1/synthesis/"+synthesisID+"/nodes", &ids)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, chemerr.New(chemerr.Output, "The synthesis plan has no reaction nodes.")
	}
	return ids, nil
}

// NodeSettings fetches the action metadata for one reaction node. A Too Many
// Requests reply sleeps an extra backoff before reporting a transient failure.
func (c *Client) NodeSettings(ctx context.Context, synthesisID, nodeID string) (*ReactionSettings, error) {
	raw := map[string]json.RawMessage{}
	err := c.getJSONBody(ctx, "/api/v1/synthesis/"+synthesisID+"/node/"+nodeID, &raw)
	if err != nil {
		return nil, err
	}

	if actionsRaw, ok := raw["actions"]; ok {
		settings := &ReactionSettings{}
		if err := json.Unmarshal(actionsRaw, &settings.Actions); err != nil {
			return nil, chemerr.New(chemerr.Output, "The reaction node metadata could not be parsed.")
		}
		if productRaw, ok := raw["product"]; ok {
			_ = json.Unmarshal(productRaw, &settings.Product)
		}
		return settings, nil
	}

	if respRaw, ok := raw["response"]; ok {
		var inner struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respRaw, &inner) == nil && inner.Error == "Too Many Requests" {
			if err := sleepCtx(ctx, 2*c.pollInterval); err != nil {
				return nil, err
			}
		}
	}
	return nil, chemerr.New(chemerr.Output, "The reaction node has no action metadata.")
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSONBody(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("prediction service request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read prediction service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		// Non-200s are transient from the driver's point of view; the retry
		// policy decides when to give up.
		return chemerr.Newf(chemerr.Process,
			"The prediction service returned HTTP %d. Please try again.", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return chemerr.New(chemerr.Output, "The prediction service returned a malformed response.")
	}
	return nil
}
