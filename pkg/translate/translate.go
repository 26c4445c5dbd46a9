// Package translate detects the language of user text and translates answers
// between languages.
package translate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Detector identifies the language of a piece of text as a language code.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Translator renders text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Client does both.
type Client interface {
	Detector
	Translator
}

// NormalizeCode canonicalizes a language code ("EN-us" becomes "en-US").
// It returns an error for anything that is not a well-formed BCP-47 tag.
func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", code, err)
	}
	return tag.String(), nil
}

// SameLanguage reports whether two codes share a base language, so "en" and
// "en-GB" compare equal.
func SameLanguage(a, b string) bool {
	ta, errA := language.Parse(strings.TrimSpace(a))
	tb, errB := language.Parse(strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	ba, _ := ta.Base()
	bb, _ := tb.Base()
	return ba == bb
}

// Nop never detects anything and returns text unchanged. It backs the "none"
// provider.
type Nop struct {
	Canonical string
}

func (n Nop) Detect(ctx context.Context, text string) (string, error) {
	return n.Canonical, nil
}

func (n Nop) Translate(ctx context.Context, text, target string) (string, error) {
	return text, nil
}
