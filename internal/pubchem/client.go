// Package pubchem is a client for the PubChem PUG View and PUG REST APIs:
// full compound records, identifier-to-CID resolution and property lookup.
package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chemclerk/chemclerk/internal/chemerr"
	"github.com/chemclerk/chemclerk/internal/config"
	"github.com/chemclerk/chemclerk/internal/record"
	"github.com/chemclerk/chemclerk/internal/smiles"
)

const noMatchMessage = "Could not find a matched molecule/compound on PubChem. " +
	"Please double check your input and search for one molecule/compound at a time, " +
	"or use its another identifier (e.g., IUPAC name or common name) for the search."

// Client calls the PubChem APIs. Construct once and share; it is safe for
// concurrent use.
type Client struct {
	viewBase   string
	restBase   string
	httpClient *http.Client
}

// New builds a Client from config.
func New(cfg config.PubChemConfig) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		viewBase:   strings.TrimRight(cfg.ViewBase, "/"),
		restBase:   strings.TrimRight(cfg.RESTBase, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchRecord retrieves the full compound page for a CID.
func (c *Client) FetchRecord(ctx context.Context, cid int64) (*record.RawRecord, error) {
	u := fmt.Sprintf("%s/data/compound/%d/JSON/", c.viewBase, cid)

	var rec record.RawRecord
	if err := c.getJSON(ctx, u, &rec); err != nil {
		return nil, err
	}
	if len(rec.Record.Section) == 0 {
		return nil, chemerr.Newf(chemerr.Search,
			"The compound record for CID %d has no content sections.", cid)
	}
	return &rec, nil
}

// ResolveCID resolves an identifier to a numeric compound key. It validates
// the input per namespace, performs a single remote lookup and never retries;
// a failed call propagates immediately with its error kind.
func (c *Client) ResolveCID(ctx context.Context, ns Namespace, identifier string) (int64, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return 0, chemerr.New(chemerr.Input, "Empty identifier. Please input the molecule/compound to search for.")
	}

	switch ns {
	case NamespaceSMILES:
		if !smiles.IsValid(identifier) {
			return 0, chemerr.New(chemerr.Input,
				"The input SMILES is invalid. Please double-check. Note that you should input only one molecule/compound at a time.")
		}
		return c.cidLookup(ctx, "smiles", identifier)
	case NamespaceIUPAC, NamespaceName:
		return c.cidLookup(ctx, "name", identifier)
	default:
		return 0, chemerr.Newf(chemerr.Input, "The representation name %q is not supported.", string(ns))
	}
}

// cidLookup queries PUG REST for CIDs matching the identifier and returns the
// first match.
func (c *Client) cidLookup(ctx context.Context, pugNamespace, identifier string) (int64, error) {
	u := fmt.Sprintf("%s/compound/%s/%s/cids/JSON", c.restBase, pugNamespace, url.PathEscape(identifier))

	var body struct {
		IdentifierList struct {
			CID []int64 `json:"CID"`
		} `json:"IdentifierList"`
		Fault *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Fault"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return 0, err
	}
	if body.Fault != nil || len(body.IdentifierList.CID) == 0 {
		return 0, chemerr.New(chemerr.Search, noMatchMessage)
	}
	return body.IdentifierList.CID[0], nil
}

// Properties is the subset of PUG REST compound properties the tools use.
type Properties struct {
	CID              int64  `json:"CID"`
	IUPACName        string `json:"IUPACName"`
	IsomericSMILES   string `json:"IsomericSMILES"`
	MolecularFormula string `json:"MolecularFormula"`
}

// FetchProperties retrieves name/structure/formula properties for a CID.
func (c *Client) FetchProperties(ctx context.Context, cid int64) (*Properties, error) {
	u := fmt.Sprintf("%s/compound/cid/%d/property/IUPACName,IsomericSMILES,MolecularFormula/JSON",
		c.restBase, cid)

	var body struct {
		PropertyTable struct {
			Properties []Properties `json:"Properties"`
		} `json:"PropertyTable"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	if len(body.PropertyTable.Properties) == 0 {
		return nil, chemerr.Newf(chemerr.Search,
			"No properties found on PubChem for CID %d.", cid)
	}
	return &body.PropertyTable.Properties[0], nil
}

// getJSON performs one GET and decodes the JSON response. Remote bad-request
// responses surface as Search errors so callers can phrase them for the user.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pubchem request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read pubchem response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return chemerr.New(chemerr.Search,
			"Error occurred while searching for the molecule/compound on PubChem. Please try other tools or double check your input.")
	default:
		return fmt.Errorf("pubchem HTTP %d: %s", resp.StatusCode, truncateBody(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse pubchem response: %w", err)
	}
	return nil
}

func truncateBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
