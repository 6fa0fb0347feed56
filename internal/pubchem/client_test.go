package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/chemclerk/chemclerk/internal/chemerr"
	"github.com/chemclerk/chemclerk/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := New(config.PubChemConfig{
		ViewBase:    srv.URL + "/rest/pug_view",
		RESTBase:    srv.URL + "/rest/pug",
		TimeoutSecs: 5,
	})
	return client, srv
}

func TestParseNamespace(t *testing.T) {
	cases := []struct {
		in   string
		want Namespace
	}{
		{"SMILES", NamespaceSMILES},
		{"smiles", NamespaceSMILES},
		{"IUPAC", NamespaceIUPAC},
		{"IUPAC name", NamespaceIUPAC},
		{"Name", NamespaceName},
		{"common name", NamespaceName},
		{"  Name  ", NamespaceName},
	}
	for _, c := range cases {
		got, err := ParseNamespace(c.in)
		if err != nil {
			t.Errorf("ParseNamespace(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseNamespace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseNamespace_Empty(t *testing.T) {
	_, err := ParseNamespace("   ")
	if !chemerr.Is(err, chemerr.Input) {
		t.Fatalf("expected Input error, got %v", err)
	}
	if err.Error() != "Empty representation name." {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestParseNamespace_Unsupported(t *testing.T) {
	_, err := ParseNamespace("InChI")
	if !chemerr.Is(err, chemerr.Input) {
		t.Fatalf("expected Input error, got %v", err)
	}
}

func TestResolveCID_SMILES(t *testing.T) {
	var requests atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if !strings.Contains(r.URL.Path, "/compound/smiles/CCO/cids/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"IdentifierList":{"CID":[702]}}`))
	}))

	cid, err := client.ResolveCID(context.Background(), NamespaceSMILES, "CCO")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cid != 702 {
		t.Errorf("cid = %d, want 702", cid)
	}
	if requests.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", requests.Load())
	}
}

func TestResolveCID_InvalidSMILESFailsBeforeRemoteCall(t *testing.T) {
	var requests atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	_, err := client.ResolveCID(context.Background(), NamespaceSMILES, "CC(")
	if !chemerr.Is(err, chemerr.Input) {
		t.Fatalf("expected Input error, got %v", err)
	}
	if requests.Load() != 0 {
		t.Errorf("remote call made for invalid SMILES: %d requests", requests.Load())
	}
}

func TestResolveCID_EmptyIdentifierFailsBeforeRemoteCall(t *testing.T) {
	var requests atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	_, err := client.ResolveCID(context.Background(), NamespaceName, "   ")
	if !chemerr.Is(err, chemerr.Input) {
		t.Fatalf("expected Input error, got %v", err)
	}
	if requests.Load() != 0 {
		t.Errorf("remote call made for empty identifier: %d requests", requests.Load())
	}
}

func TestResolveCID_NameUsesNameNamespace(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/compound/name/aspirin/cids/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"IdentifierList":{"CID":[2244]}}`))
	}))

	cid, err := client.ResolveCID(context.Background(), NamespaceName, "aspirin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cid != 2244 {
		t.Errorf("cid = %d, want 2244", cid)
	}
}

func TestResolveCID_NoMatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Fault":{"Code":"PUGREST.NotFound","Message":"No CID found"}}`))
	}))

	_, err := client.ResolveCID(context.Background(), NamespaceName, "unobtainium")
	if !chemerr.Is(err, chemerr.Search) {
		t.Fatalf("expected Search error, got %v", err)
	}
}

func TestResolveCID_NotFoundStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.ResolveCID(context.Background(), NamespaceName, "nothing")
	if !chemerr.Is(err, chemerr.Search) {
		t.Fatalf("expected Search error, got %v", err)
	}
}

func TestResolveCID_ServerErrorIsNotSearch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.ResolveCID(context.Background(), NamespaceName, "aspirin")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := chemerr.KindOf(err); ok {
		t.Errorf("server fault should be an infrastructure error, got kind for %v", err)
	}
}

func TestFetchRecord(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/rest/pug_view/data/compound/702/JSON") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"Record":{"RecordType":"CID","RecordNumber":702,"RecordTitle":"Ethanol",
			"Section":[{"TOCHeading":"Names and Identifiers"}]}}`))
	}))

	rec, err := client.FetchRecord(context.Background(), 702)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Record.RecordTitle != "Ethanol" {
		t.Errorf("title = %q", rec.Record.RecordTitle)
	}
	if len(rec.Record.Section) != 1 {
		t.Errorf("sections = %d, want 1", len(rec.Record.Section))
	}
}

func TestFetchRecord_NoSections(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Record":{"RecordType":"CID","RecordNumber":1}}`))
	}))

	_, err := client.FetchRecord(context.Background(), 1)
	if !chemerr.Is(err, chemerr.Search) {
		t.Fatalf("expected Search error, got %v", err)
	}
}

func TestFetchProperties(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"PropertyTable":{"Properties":[
			{"CID":702,"IUPACName":"ethanol","IsomericSMILES":"CCO","MolecularFormula":"C2H6O"}]}}`))
	}))

	props, err := client.FetchProperties(context.Background(), 702)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if props.IUPACName != "ethanol" || props.MolecularFormula != "C2H6O" {
		t.Errorf("unexpected properties: %+v", props)
	}
}
