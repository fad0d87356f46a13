// Package profanity masks disallowed tokens in chat message bodies. The
// filter is pure and deterministic: the same input and dictionary always
// produce the same masked output, and it only ever touches the message body,
// never sender identity or metadata.
package profanity

import (
	goaway "github.com/TwiN/go-away"
)

type Filter struct {
	detector *goaway.ProfanityDetector
}

// NewFilter builds a filter over the library's default dictionary.
func NewFilter() *Filter {
	return &Filter{detector: goaway.NewProfanityDetector()}
}

// NewFilterWithDictionary builds a filter over an explicit dictionary,
// used by tests and restricted deployments.
func NewFilterWithDictionary(words []string) *Filter {
	return &Filter{
		detector: goaway.NewProfanityDetector().WithCustomDictionary(words, nil, nil),
	}
}

// Censor replaces every disallowed token in text with masking characters.
func (f *Filter) Censor(text string) string {
	return f.detector.Censor(text)
}
