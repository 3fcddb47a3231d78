package bids

import (
	"fmt"
	"regexp"
	"strings"
)

// Key is a destination naming template. Keys are opaque to the orchestrator;
// only the apply layer expands them.
type Key string

var placeholderPattern = regexp.MustCompile(`\{([a-z]+)\}`)

var knownPlaceholders = map[string]struct{}{
	"subject": {},
	"session": {},
	"item":    {},
}

// Validate reports templates that are empty, absolute, or use unknown
// placeholders.
func (k Key) Validate() error {
	template := string(k)
	if strings.TrimSpace(template) == "" {
		return fmt.Errorf("destination template must not be empty")
	}
	if strings.HasPrefix(template, "/") {
		return fmt.Errorf("destination template %q must be relative", template)
	}
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := knownPlaceholders[match[1]]; !ok {
			return fmt.Errorf("destination template %q: unknown placeholder {%s}", template, match[1])
		}
	}
	return nil
}

// Expand fills the template's placeholders. item is one-based and zero-padded
// to two digits, matching the convention for repeated acquisitions.
func (k Key) Expand(subject, session string, item int) string {
	replacer := strings.NewReplacer(
		"{subject}", subject,
		"{session}", session,
		"{item}", fmt.Sprintf("%02d", item),
	)
	return replacer.Replace(string(k))
}

// Datatype returns the BIDS datatype folder of the template (anat, func,
// fmap, dwi, ...), or an empty string when the template has no folder
// component.
func (k Key) Datatype() string {
	parts := strings.Split(string(k), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Suffix returns the trailing modality suffix of the template, e.g. "bold"
// for a template ending in _bold.
func (k Key) Suffix() string {
	base := string(k)
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "_"); idx >= 0 {
		return base[idx+1:]
	}
	return base
}
