// Package department maps routing keywords to department contact details.
package department

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultKeyword names the entry used when no other keyword applies.
const DefaultKeyword = "default"

var ErrNoDefault = errors.New("department mapping has no default entry")

type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// Directory is an immutable keyword to contact table.
type Directory struct {
	contacts map[string]Contact
	keywords []string
}

// Load reads a JSON object of keyword to contact from path.
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read department mapping: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Directory, error) {
	raw := map[string]Contact{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode department mapping: %w", err)
	}
	return NewDirectory(raw)
}

// NewDirectory normalizes keys and requires a default entry.
func NewDirectory(entries map[string]Contact) (*Directory, error) {
	contacts := make(map[string]Contact, len(entries))
	for k, v := range entries {
		contacts[NormalizeKeyword(k)] = v
	}
	if _, ok := contacts[DefaultKeyword]; !ok {
		return nil, ErrNoDefault
	}

	keywords := make([]string, 0, len(contacts)-1)
	for k := range contacts {
		if k != DefaultKeyword {
			keywords = append(keywords, k)
		}
	}
	sort.Strings(keywords)

	return &Directory{contacts: contacts, keywords: keywords}, nil
}

// Keywords lists every keyword except the default, sorted.
func (d *Directory) Keywords() []string {
	out := make([]string, len(d.keywords))
	copy(out, d.keywords)
	return out
}

// Lookup returns the contact for keyword, or the default contact when the
// keyword is unknown. matched reports whether the keyword itself was found.
func (d *Directory) Lookup(keyword string) (contact Contact, matched bool) {
	if c, ok := d.contacts[NormalizeKeyword(keyword)]; ok {
		return c, true
	}
	return d.contacts[DefaultKeyword], false
}

// NormalizeKeyword trims, lowercases and strips quotes from classifier output.
func NormalizeKeyword(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.NewReplacer(`"`, "", "'", "", "`", "").Replace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "."))
}
