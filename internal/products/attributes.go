package products

import (
	"strings"
)

// AttributeSplitter derives material and colour from a free-text product name.
type AttributeSplitter interface {
	Split(name string) (material, colour string)
}

// SeparatorSplitter reads "material colour" from the text after the last
// Separator in the name. Without a separator both attributes are empty.
type SeparatorSplitter struct {
	Separator string
}

// Split implements AttributeSplitter
func (s SeparatorSplitter) Split(name string) (string, string) {
	idx := strings.LastIndex(name, s.Separator)
	if s.Separator == "" || idx < 0 {
		return "", ""
	}
	compound := strings.TrimSpace(name[idx+len(s.Separator):])
	material, colour, found := strings.Cut(compound, " ")
	if !found {
		return material, ""
	}
	return material, strings.TrimSpace(colour)
}

// Attribute is the product attribute a vocabulary keyword stands for.
type Attribute int

const (
	AttributeMaterial Attribute = iota + 1
	AttributeColour
)

// Vocabulary maps lower-case keywords to the attribute they denote.
type Vocabulary map[string]Attribute

// NewVocabulary builds a vocabulary from material and colour keyword lists.
func NewVocabulary(materials, colours []string) Vocabulary {
	v := make(Vocabulary, len(materials)+len(colours))
	for _, m := range materials {
		v[strings.ToLower(m)] = AttributeMaterial
	}
	for _, c := range colours {
		v[strings.ToLower(c)] = AttributeColour
	}
	return v
}

// Merge returns a new vocabulary holding v's keywords overlaid with other's.
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	out := make(Vocabulary, len(v)+len(other))
	for k, a := range v {
		out[k] = a
	}
	for k, a := range other {
		out[strings.ToLower(k)] = a
	}
	return out
}

// Lookup reports the attribute of word, ignoring case.
func (v Vocabulary) Lookup(word string) (Attribute, bool) {
	a, ok := v[strings.ToLower(word)]
	return a, ok
}

// KeywordSplitter scans the name's words from the end and takes the first
// material keyword and the first colour keyword it meets. When no colour
// keyword is present the last word of the name is used as the colour, so the
// colour does not reliably signal absence.
type KeywordSplitter struct {
	Vocabulary Vocabulary
}

// Split implements AttributeSplitter
func (s KeywordSplitter) Split(name string) (string, string) {
	words := strings.Fields(name)
	var material, colour string
	for i := len(words) - 1; i >= 0; i-- {
		attr, ok := s.Vocabulary.Lookup(words[i])
		if !ok {
			continue
		}
		switch {
		case attr == AttributeMaterial && material == "":
			material = words[i]
		case attr == AttributeColour && colour == "":
			colour = words[i]
		}
		if material != "" && colour != "" {
			break
		}
	}
	if colour == "" && len(words) > 0 {
		colour = words[len(words)-1]
	}
	return material, colour
}
