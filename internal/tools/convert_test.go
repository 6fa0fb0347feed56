package tools

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestSMILESToIUPAC(t *testing.T) {
	tool := NewSMILESToIUPACTool(newPubChemTestClient(t, ethanolHandler(t)))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ethanol" {
		t.Errorf("got %q, want %q", out, "ethanol")
	}
}

func TestSMILESToIUPAC_MultiComponent(t *testing.T) {
	tool := NewSMILESToIUPACTool(newPubChemTestClient(t, ethanolHandler(t)))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO.CCO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ethanol, ethanol" {
		t.Errorf("got %q", out)
	}
}

func TestSMILESToIUPAC_InvalidInput(t *testing.T) {
	tool := NewSMILESToIUPACTool(newPubChemTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no remote call expected for invalid SMILES")
	})))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "définitely wrong"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Error: ") {
		t.Errorf("expected Error prefix, got %q", out)
	}
}

func TestIUPACToSMILES(t *testing.T) {
	tool := NewIUPACToSMILESTool(newPubChemTestClient(t, ethanolHandler(t)))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "ethanol"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "CCO" {
		t.Errorf("got %q, want %q", out, "CCO")
	}
}

func TestNameToSMILES(t *testing.T) {
	tool := NewNameToSMILESTool(newPubChemTestClient(t, ethanolHandler(t)))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "grain alcohol"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "CCO" {
		t.Errorf("got %q, want %q", out, "CCO")
	}
}

func TestSMILESToFormula(t *testing.T) {
	tool := NewSMILESToFormulaTool(newPubChemTestClient(t, ethanolHandler(t)))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "C2H6O" {
		t.Errorf("got %q, want %q", out, "C2H6O")
	}
}

func TestSMILESToFormula_RejectsMixture(t *testing.T) {
	tool := NewSMILESToFormulaTool(newPubChemTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no remote call expected for a mixture")
	})))

	out, err := tool.Execute(context.Background(), map[string]any{"query": "CCO.CCN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "one molecule at a time") {
		t.Errorf("unexpected result: %q", out)
	}
}
