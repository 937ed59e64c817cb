package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSymbol(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"bare first match", "AAPL is up today", "AAPL", true},
		{"explicit beats earlier bare", "compare MSFT with ticker TSLA", "TSLA", true},
		{"keyword case insensitive token case sensitive", "please use symbol abc ticker XYZ", "XYZ", true},
		{"Symbol keyword capitalized", "Symbol NVDA", "NVDA", true},
		{"single letter is not a ticker", "I like it", "", false},
		{"six letters is not a ticker", "ABCDEF rallied", "", false},
		{"lowercase only", "select aapl", "", false},
		{"left to right", "GOOG or AMZN", "GOOG", true},
		{"none", "hello there", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractor.ExtractSymbol(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCompanyFallbackPattern(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Tell me about Apple", "Apple", true},
		{"What do you know about Tesla Motors? Thanks", "Tesla Motors", true},
		{"tell me ABOUT  Microsoft, please", "Microsoft", true},
		{"about General Electric!", "General Electric", true},
		{"analyze AAPL", "", false},
		{"about ?", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := extractor.ExtractCompany(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type stubRecognizer []Entity

func (s stubRecognizer) Recognize(string) []Entity { return s }

func TestExtractCompanyPrefersRecognizer(t *testing.T) {
	extractor := NewExtractor(stubRecognizer{
		{Text: "Tim Cook", Label: "PERSON"},
		{Text: "iPhone", Label: LabelProduct},
		{Text: "Apple", Label: LabelOrganization},
	})

	got, ok := extractor.ExtractCompany("Tell me about Tim Cook's iPhone at Apple")
	assert.True(t, ok)
	assert.Equal(t, "iPhone", got)
}

func TestExtractCompanyRecognizerMissFallsBack(t *testing.T) {
	extractor := NewExtractor(stubRecognizer{{Text: "Paris", Label: "GPE"}})

	got, ok := extractor.ExtractCompany("Tell me about Airbus")
	assert.True(t, ok)
	assert.Equal(t, "Airbus", got)
}

func TestGazetteerRecognizer(t *testing.T) {
	recognizer := NewGazetteerRecognizer([]string{"Microsoft", "Apple", "  "})

	entities := recognizer.Recognize("is apple bigger than Microsoft")
	assert.Equal(t, []Entity{
		{Text: "apple", Label: LabelOrganization},
		{Text: "Microsoft", Label: LabelOrganization},
	}, entities)

	assert.Empty(t, recognizer.Recognize("pineapple"))

	extractor := NewExtractor(recognizer)
	got, ok := extractor.ExtractCompany("How is Microsoft doing")
	assert.True(t, ok)
	assert.Equal(t, "Microsoft", got)
}
