package heuristic

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fwbids/internal/bids"
	"fwbids/internal/query"
)

// ErrLoad marks heuristic references that do not resolve to a usable
// classification entry point.
var ErrLoad = errors.New("heuristic load error")

// Mapping pairs one destination template with the sequences classified into
// it. Heuristics return mappings as a slice so the insertion order of the
// classification survives all the way to the apply layer.
type Mapping struct {
	Key      bids.Key
	SeqInfos []query.SeqInfo
}

// Heuristic is the classification capability. Classify must be pure: it
// inspects sequence metadata and never touches the remote service.
type Heuristic interface {
	Classify(seqInfos []query.SeqInfo) ([]Mapping, error)
}

// IntentionProvider is optionally implemented by heuristics that declare
// IntendedFor cross-references between destinations.
type IntentionProvider interface {
	Intentions() Intentions
}

// Intentions maps destination templates to the files their outputs are
// intended to annotate.
type Intentions map[string][]string

// ForKey returns the intention list for a destination, defaulting to an
// empty list. Downstream calls must never receive an absent key.
func (in Intentions) ForKey(key bids.Key) []string {
	if in == nil {
		return []string{}
	}
	if refs, ok := in[string(key)]; ok && refs != nil {
		return refs
	}
	return []string{}
}

// IntentionsOf extracts the intention mapping from a heuristic, returning an
// empty mapping when the heuristic does not provide one.
func IntentionsOf(h Heuristic) Intentions {
	if provider, ok := h.(IntentionProvider); ok {
		if intentions := provider.Intentions(); intentions != nil {
			return intentions
		}
	}
	return Intentions{}
}

// Load resolves a heuristic reference: a registered preset name, a Go file
// interpreted at runtime, or a YAML rule file.
func Load(reference string) (Heuristic, error) {
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty heuristic reference", ErrLoad)
	}
	if h, ok := lookupPreset(trimmed); ok {
		return h, nil
	}
	switch strings.ToLower(filepath.Ext(trimmed)) {
	case ".go":
		return loadGoFile(trimmed)
	case ".yaml", ".yml":
		return loadRuleFile(trimmed)
	}
	return nil, fmt.Errorf("%w: %q is neither a known preset nor a .go/.yaml heuristic file", ErrLoad, trimmed)
}

func validateMappings(mappings []Mapping) error {
	for _, mapping := range mappings {
		if err := mapping.Key.Validate(); err != nil {
			return err
		}
	}
	return nil
}
