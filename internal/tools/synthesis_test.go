package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/chemclerk/chemclerk/internal/config"
	"github.com/chemclerk/chemclerk/internal/rxn"
	"github.com/chemclerk/chemclerk/internal/schema"
)

func newRXNTestClient(t *testing.T, handler http.Handler) *rxn.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return rxn.New(config.RXNConfig{
		APIKey:           "test-key",
		APIBase:          srv.URL,
		ProjectName:      "test-project",
		MaxAttempts:      3,
		PollIntervalSecs: 0,
		TimeoutSecs:      5,
	})
}

func TestFormatConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0.938, "0.938"},
		{0.917, "0.917"},
		{0.5, "0.5"},
		{0, "0.0"},
	}
	for _, c := range cases {
		if got := formatConfidence(c.in); got != c.want {
			t.Errorf("formatConfidence(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanValue(t *testing.T) {
	in := map[string]any{
		"name":     "add",
		"empty":    "",
		"disabled": false,
		"enabled":  true,
		"missing":  nil,
		"content": map[string]any{
			"material": "DCM",
			"note":     "",
		},
		"list": []any{map[string]any{"keep": "x", "drop": nil}},
	}
	out, ok := cleanValue(in).(map[string]any)
	if !ok {
		t.Fatalf("unexpected type %T", cleanValue(in))
	}
	for _, key := range []string{"empty", "disabled", "missing"} {
		if _, present := out[key]; present {
			t.Errorf("key %q should have been removed", key)
		}
	}
	if out["name"] != "add" || out["enabled"] != true {
		t.Errorf("kept values changed: %+v", out)
	}
	inner := out["content"].(map[string]any)
	if _, present := inner["note"]; present {
		t.Errorf("nested empty value kept: %+v", inner)
	}
	item := out["list"].([]any)[0].(map[string]any)
	if _, present := item["drop"]; present {
		t.Errorf("empty value inside list kept: %+v", item)
	}
}

func TestForwardSynthesis_InputValidation(t *testing.T) {
	tool := NewForwardSynthesisTool(newRXNTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no remote call expected for invalid input")
	})))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "not a smiles!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "invalid SMILES") {
		t.Errorf("unexpected result: %q", out)
	}

	out, err = tool.Execute(context.Background(), map[string]any{"query": "CCO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "at least two reactants") {
		t.Errorf("unexpected result: %q", out)
	}
}

func TestForwardSynthesis_PredictsProduct(t *testing.T) {
	var polls atomic.Int64
	tool := NewForwardSynthesisTool(newRXNTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/projects":
			w.Write([]byte(`{"payload":{"id":"proj-1"}}`))
		case r.URL.Path == "/api/v1/predictions/forward" && r.Method == http.MethodPost:
			w.Write([]byte(`{"prediction_id":"pred-1"}`))
		case r.URL.Path == "/api/v1/predictions/forward/pred-1":
			if polls.Add(1) < 2 {
				w.Write([]byte(`{"response":{}}`))
				return
			}
			w.Write([]byte(`{"response":{"payload":{"attempts":[
				{"productMolecule":{"smiles":"CCNCc1cccn1C"}}]}}}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	})))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCN.CN1C=CC=C1C=O"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "CCNCc1cccn1C" {
		t.Errorf("product = %q", out)
	}
	if polls.Load() != 2 {
		t.Errorf("polls = %d, want 2", polls.Load())
	}
}

func TestRetrosynthesis_RanksByConfidence(t *testing.T) {
	tool := NewRetrosynthesisTool(newRXNTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/projects":
			w.Write([]byte(`{"payload":{"id":"proj-1"}}`))
		case r.URL.Path == "/api/v1/retrosynthesis" && r.Method == http.MethodPost:
			w.Write([]byte(`{"prediction_id":"pred-2"}`))
		case r.URL.Path == "/api/v1/retrosynthesis/pred-2":
			w.Write([]byte(`{"status":"SUCCESS","retrosynthetic_paths":[
				{"sequenceId":"s1","confidence":0.917,"smiles":"CCO","children":[{"smiles":"CCN"},{"smiles":"Cn1cccc1C=O"}]},
				{"sequenceId":"s2","confidence":1.0,"smiles":"CCO","children":[{"smiles":"C1CCOC1"},{"smiles":"[Li][AlH4]"}]},
				{"sequenceId":"s3","confidence":0.938,"smiles":"CCO","children":[{"smiles":"CCN"},{"smiles":"Cl"}]}]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	})))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "There are 3 possible sets of reactants for the given product:" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	want := []string{
		"1.\tReactants: C1CCOC1.[Li][AlH4]\tConfidence: 1.0",
		"2.\tReactants: CCN.Cl\tConfidence: 0.938",
		"3.\tReactants: CCN.Cn1cccc1C=O\tConfidence: 0.917",
	}
	if len(lines) != len(want)+1 {
		t.Fatalf("unexpected line count: %q", out)
	}
	for i, w := range want {
		if lines[i+1] != w {
			t.Errorf("line %d = %q, want %q", i+1, lines[i+1], w)
		}
	}
}

func TestRetrosynthesis_SingleCandidateUsesIs(t *testing.T) {
	tool := NewRetrosynthesisTool(newRXNTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/projects":
			w.Write([]byte(`{"payload":{"id":"proj-1"}}`))
		case r.URL.Path == "/api/v1/retrosynthesis":
			w.Write([]byte(`{"prediction_id":"pred-2"}`))
		case r.URL.Path == "/api/v1/retrosynthesis/pred-2":
			w.Write([]byte(`{"status":"SUCCESS","retrosynthetic_paths":[
				{"sequenceId":"s1","confidence":0.9,"smiles":"CCO","children":[{"smiles":"CCN"}]}]}`))
		default:
			http.NotFound(w, r)
		}
	})))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "There is 1 possible sets of reactants for the given product:\n") {
		t.Errorf("unexpected header: %q", out)
	}
}

func TestRetrosynthesis_RejectsMultipleMolecules(t *testing.T) {
	tool := NewRetrosynthesisTool(newRXNTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no remote call expected")
	})))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO.CCN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "one product at a time") {
		t.Errorf("unexpected result: %q", out)
	}
}

func TestSynthesisPlan_NarratesRoute(t *testing.T) {
	provider := &fakeProvider{responses: []schema.LLMResponse{
		textResponse("Dissolve the aldehyde in 15mL of DCM, then add the amine."),
	}}
	tool := NewSynthesisPlanTool(newRXNTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/projects":
			w.Write([]byte(`{"payload":{"id":"proj-1"}}`))
		case r.URL.Path == "/api/v1/retrosynthesis":
			w.Write([]byte(`{"prediction_id":"pred-3"}`))
		case r.URL.Path == "/api/v1/retrosynthesis/pred-3":
			w.Write([]byte(`{"status":"SUCCESS","retrosynthetic_paths":[
				{"sequenceId":"seq-1","confidence":0.9,"smiles":"CCNCc1cccn1C","children":[{"smiles":"CCN"},{"smiles":"Cn1cccc1C=O"}]}]}`))
		case r.URL.Path == "/api/v1/synthesis":
			w.Write([]byte(`{"synthesis_id":"syn-1"}`))
		case r.URL.Path == "/api/v1/synthesis/syn-1/nodes":
			w.Write([]byte(`["node-1"]`))
		case r.URL.Path == "/api/v1/synthesis/syn-1/node/node-1":
			w.Write([]byte(`{"actions":[{"name":"add","content":{"material":"CCN","dropwise":false}}],
				"product":{"smiles":"CCNCc1cccn1C"}}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	})), provider, schema.ChatOptions{Model: "test-model"})

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCNCc1cccn1C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "15mL of DCM") {
		t.Errorf("unexpected narration: %q", out)
	}

	prompt := provider.lastMsgs.Messages[0].ContentText()
	if !strings.Contains(prompt, "number_of_steps") || !strings.Contains(prompt, "Step_0") {
		t.Errorf("plan json missing from prompt: %q", prompt)
	}
	if strings.Contains(prompt, "dropwise") {
		t.Errorf("false-valued field should have been cleaned from prompt: %q", prompt)
	}
}

func TestSynthesisPlan_DegradesToRawRouteWhenPlanUnavailable(t *testing.T) {
	tool := NewSynthesisPlanTool(newRXNTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/projects":
			w.Write([]byte(`{"payload":{"id":"proj-1"}}`))
		case r.URL.Path == "/api/v1/retrosynthesis":
			w.Write([]byte(`{"prediction_id":"pred-3"}`))
		case r.URL.Path == "/api/v1/retrosynthesis/pred-3":
			w.Write([]byte(`{"status":"SUCCESS","retrosynthetic_paths":[
				{"sequenceId":"seq-1","confidence":0.9,"smiles":"CCO","children":[{"smiles":"CCN"}]}]}`))
		case r.URL.Path == "/api/v1/synthesis":
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	})), &fakeProvider{}, schema.ChatOptions{})

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"sequenceId":"seq-1"`) {
		t.Errorf("expected raw route JSON, got %q", out)
	}
}
