package record

import (
	"strconv"
	"strings"
)

// Information is one typed leaf value within a section.
type Information struct {
	value RawValue
}

// NewInformation builds an Information from its raw payload.
func NewInformation(raw RawInformation) Information {
	return Information{value: raw.Value}
}

// Text renders the item as one or more lines, or "" when the value carries no
// non-blank text.
func (in Information) Text() string {
	var b strings.Builder

	switch {
	case len(in.value.StringWithMarkup) > 0:
		for _, item := range in.value.StringWithMarkup {
			b.WriteString(item.String)
			if item.Unit != "" {
				b.WriteString(" " + item.Unit)
			}
			b.WriteString("\n")
		}

	case len(in.value.Number) > 0:
		if in.value.Name != "" {
			b.WriteString(in.value.Name + ": ")
		}
		parts := make([]string, len(in.value.Number))
		for i, n := range in.value.Number {
			parts[i] = n.String()
		}
		b.WriteString(strings.Join(parts, ", "))
		if in.value.Unit != "" {
			b.WriteString(" " + in.value.Unit)
		}
		b.WriteString("\n")
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}

// Section is a titled, possibly nested unit of a compound record.
type Section struct {
	Level       int
	Title       string
	Description string
	Items       []Information
	Children    []Section
}

// NewSection builds a Section tree from its raw payload. level is the
// markdown heading depth, 1 for top-level sections.
func NewSection(raw RawSection, level int) Section {
	section := Section{
		Level:       level,
		Title:       raw.TOCHeading,
		Description: raw.Description,
	}
	for _, info := range raw.Information {
		section.Items = append(section.Items, NewInformation(info))
	}
	for _, sub := range raw.Section {
		section.Children = append(section.Children, NewSection(sub, level+1))
	}
	return section
}

// Text renders the section under the given dotted index path, or "" when the
// body (items plus children) is blank. A section with a description but no
// content still renders to nothing: descriptions alone do not count as
// content. Child indices are dense — a child that renders empty does not
// advance its siblings' numbering.
func (s Section) Text(indices []string) string {
	var title strings.Builder
	title.WriteString(strings.Repeat("#", s.Level) + " ")
	if len(indices) > 0 {
		title.WriteString(strings.Join(indices, ".") + " ")
	}
	title.WriteString(s.Title + "\n")
	if s.Description != "" {
		title.WriteString("Section Description: " + s.Description + "\n")
	}
	title.WriteString("\n")

	var content strings.Builder
	for _, item := range s.Items {
		content.WriteString(item.Text())
	}

	idx := 1
	for _, child := range s.Children {
		childText := child.Text(append(indices[:len(indices):len(indices)], strconv.Itoa(idx)))
		if childText != "" {
			idx++
			content.WriteString(childText)
		}
	}

	if strings.TrimSpace(content.String()) == "" {
		return ""
	}

	return title.String() + content.String() + "\n\n"
}

// Document is the ordered sequence of top-level sections of one compound page.
type Document struct {
	Sections []Section
}

// BuildDocument constructs a Document from (already filtered) raw sections.
func BuildDocument(sections []RawSection) Document {
	doc := Document{Sections: make([]Section, 0, len(sections))}
	for _, raw := range sections {
		doc.Sections = append(doc.Sections, NewSection(raw, 1))
	}
	return doc
}

// Text renders the whole document. Top-level numbering is dense: only
// sections that produce output advance the index.
func (d Document) Text() string {
	var b strings.Builder
	idx := 1
	for _, section := range d.Sections {
		text := section.Text([]string{strconv.Itoa(idx)})
		if text != "" {
			b.WriteString(text)
			idx++
		}
	}
	return b.String()
}
