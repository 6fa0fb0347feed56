package pubchem

import (
	"strings"

	"github.com/chemclerk/chemclerk/internal/chemerr"
)

// Namespace is the kind of chemical identifier supplied by the user.
type Namespace string

const (
	NamespaceSMILES Namespace = "smiles"
	NamespaceIUPAC  Namespace = "iupac"
	NamespaceName   Namespace = "name"
)

// ParseNamespace normalises a user-supplied namespace token. Matching is
// case-insensitive and accepts the synonyms "IUPAC name" and "common name".
func ParseNamespace(token string) (Namespace, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "smiles":
		return NamespaceSMILES, nil
	case "iupac", "iupac name":
		return NamespaceIUPAC, nil
	case "name", "common name":
		return NamespaceName, nil
	case "":
		return "", chemerr.New(chemerr.Input, "Empty representation name.")
	default:
		return "", chemerr.Newf(chemerr.Input,
			"The representation name %q is not supported. Please use \"SMILES\", \"IUPAC\", or \"Name\".", token)
	}
}
