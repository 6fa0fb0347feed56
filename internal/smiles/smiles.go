// Package smiles implements a syntactic validity check for SMILES strings.
//
// The check is purely lexical: it verifies the string is made of legal SMILES
// tokens with balanced branches, well-formed bracket atoms and paired ring
// closures. It does not attempt valence or aromaticity perception, which is
// enough to reject the malformed inputs the tools care about before spending
// a remote call on them.
package smiles

import "strings"

// organicAtoms are the atoms writable outside brackets, longest first so the
// scanner matches "Cl"/"Br" before "C"/"B".
var organicAtoms = []string{
	"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I",
	"b", "c", "n", "o", "p", "s",
}

const bondChars = "-=#$:/\\~"

// IsValid reports whether s is a syntactically plausible SMILES string.
func IsValid(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	depth := 0
	atoms := 0
	prevDot := true // a leading dot is invalid
	prevOpen := false
	ringCounts := map[string]int{}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '(':
			if atoms == 0 {
				return false // branch before any atom
			}
			depth++
			prevOpen = true
			i++

		case c == ')':
			if depth == 0 || prevOpen {
				return false // unbalanced or empty branch
			}
			depth--
			prevOpen = false
			i++

		case c == '.':
			if prevDot || depth != 0 {
				return false // empty component or dot inside a branch
			}
			prevDot = true
			prevOpen = false
			i++

		case c == '[':
			end := strings.IndexByte(s[i:], ']')
			if end <= 1 {
				return false // unterminated or empty bracket atom
			}
			if !validBracketAtom(s[i+1 : i+end]) {
				return false
			}
			atoms++
			prevDot = false
			prevOpen = false
			i += end + 1

		case c == ']':
			return false // closing bracket without opener

		case c >= '0' && c <= '9':
			if atoms == 0 {
				return false // ring closure before any atom
			}
			ringCounts[string(c)]++
			prevOpen = false
			i++

		case c == '%':
			if i+2 >= len(s) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
				return false
			}
			ringCounts[s[i+1:i+3]]++
			prevOpen = false
			i += 3

		case strings.IndexByte(bondChars, c) >= 0:
			if atoms == 0 && c != '-' {
				return false
			}
			prevOpen = false
			i++

		default:
			matched := false
			for _, atom := range organicAtoms {
				if strings.HasPrefix(s[i:], atom) {
					atoms++
					prevDot = false
					prevOpen = false
					i += len(atom)
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}

	if depth != 0 || prevDot || prevOpen || atoms == 0 {
		return false
	}
	for _, n := range ringCounts {
		if n%2 != 0 {
			return false
		}
	}
	return true
}

// validBracketAtom checks the interior of a [...] atom: an optional isotope,
// an element symbol, then any mix of chirality, hydrogen count and charge.
func validBracketAtom(body string) bool {
	i := 0
	for i < len(body) && isDigit(body[i]) {
		i++ // isotope
	}
	if i >= len(body) {
		return false
	}
	if body[i] == '*' {
		i++
	} else if isLetter(body[i]) {
		i++
		if i < len(body) && body[i] >= 'a' && body[i] <= 'z' {
			i++ // two-letter element
		}
	} else {
		return false
	}
	for i < len(body) {
		switch c := body[i]; {
		case c == '@' || c == 'H' || c == '+' || c == '-' || isDigit(c):
			i++
		default:
			return false
		}
	}
	return true
}

// IsMultiple reports whether s encodes more than one dot-separated molecule.
func IsMultiple(s string) bool {
	return IsValid(s) && strings.Contains(s, ".")
}

// Split returns the dot-separated components of s.
func Split(s string) []string {
	return strings.Split(strings.TrimSpace(s), ".")
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }
