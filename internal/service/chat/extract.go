package chat

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// A ticker is 2-5 uppercase letters standing alone.
	bareSymbolPattern = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
	// "symbol XYZ" / "Ticker XYZ": keyword in any case, token uppercase.
	explicitSymbolPattern = regexp.MustCompile(`\b(?i:symbol|ticker)\s+([A-Z]{2,5})\b`)
	aboutPattern          = regexp.MustCompile(`(?i)about\s+([^?.,!]+)`)
)

// Entity is a named span found by an EntityRecognizer.
type Entity struct {
	Text  string
	Label string
}

const (
	LabelOrganization = "ORG"
	LabelProduct      = "PRODUCT"
)

// EntityRecognizer finds named entities in text, in the order they appear.
type EntityRecognizer interface {
	Recognize(text string) []Entity
}

// Extractor pulls company names and ticker symbols out of user messages.
type Extractor struct {
	recognizer EntityRecognizer
}

// NewExtractor returns an Extractor. recognizer may be nil, in which case
// company names come from the "about ..." pattern alone.
func NewExtractor(recognizer EntityRecognizer) *Extractor {
	return &Extractor{recognizer: recognizer}
}

// ExtractCompany returns the first organization or product entity, falling
// back to the words after "about" up to the end of the sentence.
func (e *Extractor) ExtractCompany(text string) (string, bool) {
	if e.recognizer != nil {
		for _, entity := range e.recognizer.Recognize(text) {
			if entity.Label == LabelOrganization || entity.Label == LabelProduct {
				return entity.Text, true
			}
		}
	}

	match := aboutPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	name := strings.TrimSpace(match[1])
	if name == "" {
		return "", false
	}
	return name, true
}

// ExtractSymbol returns the ticker named with "symbol"/"ticker" if present,
// otherwise the first bare uppercase token.
func (e *Extractor) ExtractSymbol(text string) (string, bool) {
	if match := explicitSymbolPattern.FindStringSubmatch(text); match != nil {
		return match[1], true
	}

	if symbol := bareSymbolPattern.FindString(text); symbol != "" {
		return symbol, true
	}

	return "", false
}

// GazetteerRecognizer tags known company names as organizations. Matching is
// case-insensitive on whole words.
type GazetteerRecognizer struct {
	patterns []*regexp.Regexp
}

func NewGazetteerRecognizer(names []string) *GazetteerRecognizer {
	r := &GazetteerRecognizer{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r.patterns = append(r.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(name)+`\b`))
	}
	return r
}

func (r *GazetteerRecognizer) Recognize(text string) []Entity {
	type found struct {
		pos    int
		entity Entity
	}

	var hits []found
	for _, pattern := range r.patterns {
		loc := pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		hits = append(hits, found{
			pos:    loc[0],
			entity: Entity{Text: text[loc[0]:loc[1]], Label: LabelOrganization},
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	entities := make([]Entity, len(hits))
	for i, hit := range hits {
		entities[i] = hit.entity
	}
	return entities
}
