// Package record models a compound database page (PubChem PUG View) and
// renders it as a numbered, filtered, human-readable outline.
//
// The pipeline is: decode the raw JSON payload into Raw* types, prune
// unwanted sections with Filter, build the typed Section tree with
// BuildDocument, then render with Document.Text.
package record

import "encoding/json"

// RawRecord is the top-level PUG View payload for one compound.
type RawRecord struct {
	Record struct {
		RecordType  string       `json:"RecordType"`
		RecordNum   int64        `json:"RecordNumber"`
		RecordTitle string       `json:"RecordTitle"`
		Section     []RawSection `json:"Section"`
	} `json:"Record"`
}

// RawSection is one titled unit of the payload, possibly nested.
type RawSection struct {
	TOCHeading      string           `json:"TOCHeading"`
	Description     string           `json:"Description,omitempty"`
	DisplayControls map[string]any   `json:"DisplayControls,omitempty"`
	Information     []RawInformation `json:"Information,omitempty"`
	Section         []RawSection     `json:"Section,omitempty"`
}

// RawInformation is one leaf data item inside a section.
type RawInformation struct {
	Name  string   `json:"Name,omitempty"`
	Value RawValue `json:"Value"`
}

// RawValue is the typed payload of an information item: either a sequence of
// text+unit pairs or a named numeric sequence. Whichever variant is absent
// contributes no text.
type RawValue struct {
	StringWithMarkup []RawString   `json:"StringWithMarkup,omitempty"`
	Name             string        `json:"Name,omitempty"`
	Number           []json.Number `json:"Number,omitempty"`
	Unit             string        `json:"Unit,omitempty"`
}

// RawString is one text fragment with an optional unit.
type RawString struct {
	String string `json:"String"`
	Unit   string `json:"Unit,omitempty"`
}

// Clone returns a deep copy of s, including nested sections and maps.
func (s RawSection) Clone() RawSection {
	out := s
	if s.DisplayControls != nil {
		out.DisplayControls = make(map[string]any, len(s.DisplayControls))
		for k, v := range s.DisplayControls {
			out.DisplayControls[k] = v
		}
	}
	if s.Information != nil {
		out.Information = make([]RawInformation, len(s.Information))
		for i, info := range s.Information {
			out.Information[i] = info.clone()
		}
	}
	if s.Section != nil {
		out.Section = make([]RawSection, len(s.Section))
		for i, sub := range s.Section {
			out.Section[i] = sub.Clone()
		}
	}
	return out
}

func (in RawInformation) clone() RawInformation {
	out := in
	if in.Value.StringWithMarkup != nil {
		out.Value.StringWithMarkup = append([]RawString(nil), in.Value.StringWithMarkup...)
	}
	if in.Value.Number != nil {
		out.Value.Number = append([]json.Number(nil), in.Value.Number...)
	}
	return out
}
