package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// notAvailable is the scraper's placeholder for unknown engine/transmission values.
const notAvailable = "N/A"

// Rules maps raw scraped values to canonical ones, per field.
type Rules struct {
	Engine       map[string]string `json:"engine"`
	Transmission map[string]string `json:"transmission"`
	Variant      map[string]string `json:"variant"`
}

// Normalizer applies Rules to scraped listings. A nil *Normalizer passes every
// value through unchanged.
type Normalizer struct {
	engine       map[string]string
	transmission map[string]string
	variant      map[string]string // keys upper-cased
}

// NewNormalizer builds a Normalizer from rules. Variant lookups are
// case-insensitive; engine and transmission lookups are exact.
func NewNormalizer(r Rules) *Normalizer {
	n := &Normalizer{
		engine:       r.Engine,
		transmission: r.Transmission,
		variant:      make(map[string]string, len(r.Variant)),
	}
	for k, v := range r.Variant {
		n.variant[strings.ToUpper(k)] = v
	}
	return n
}

// LoadRules reads a rules file. An empty path yields a nil Normalizer.
func LoadRules(path string) (*Normalizer, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var r Rules
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode rules %s: %w", path, err)
	}
	return NewNormalizer(r), nil
}

func (n *Normalizer) Engine(v string) string {
	if n == nil || v == "" || v == notAvailable {
		return v
	}
	return lookup(n.engine, v, v)
}

func (n *Normalizer) Transmission(v string) string {
	if n == nil || v == "" || v == notAvailable {
		return v
	}
	return lookup(n.transmission, v, v)
}

func (n *Normalizer) Variant(v string) string {
	if n == nil || v == "" {
		return v
	}
	return lookup(n.variant, strings.ToUpper(v), v)
}

// Apply normalizes the engine, transmission and variant of l in place.
func (n *Normalizer) Apply(l *ScrapedListing) {
	if n == nil {
		return
	}
	if l.Engine != nil {
		v := n.Engine(*l.Engine)
		l.Engine = &v
	}
	if l.Transmission != nil {
		v := n.Transmission(*l.Transmission)
		l.Transmission = &v
	}
	if l.Variant != nil {
		v := n.Variant(*l.Variant)
		l.Variant = &v
	}
}

func lookup(m map[string]string, key, fallback string) string {
	if out, ok := m[key]; ok {
		return out
	}
	return fallback
}
