package heuristic

import (
	"regexp"
	"sort"
	"strings"

	"fwbids/internal/bids"
	"fwbids/internal/query"
)

// presets holds the heuristics usable by name instead of a file path.
var presets = map[string]func() Heuristic{
	"protocol": func() Heuristic { return protocolHeuristic{} },
}

// PresetNames returns the registered preset names in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupPreset(name string) (Heuristic, bool) {
	factory, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// protocolHeuristic derives one destination per distinct protocol name,
// guessing the BIDS datatype from common protocol substrings. It is a
// starting point for projects that have not written a heuristic yet.
type protocolHeuristic struct{}

var nonLabelChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func (protocolHeuristic) Classify(seqInfos []query.SeqInfo) ([]Mapping, error) {
	order := make([]bids.Key, 0)
	grouped := make(map[bids.Key][]query.SeqInfo)
	for _, info := range seqInfos {
		key := protocolKey(info)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], info)
	}

	mappings := make([]Mapping, 0, len(order))
	for _, key := range order {
		mappings = append(mappings, Mapping{Key: key, SeqInfos: grouped[key]})
	}
	return mappings, nil
}

func protocolKey(info query.SeqInfo) bids.Key {
	label := nonLabelChars.ReplaceAllString(info.ProtocolName, "")
	if label == "" {
		label = "unknown"
	}
	datatype := guessDatatype(info.ProtocolName)
	template := "sub-{subject}/ses-{session}/" + datatype + "/sub-{subject}_ses-{session}_" + label
	return bids.Key(template)
}

func guessDatatype(protocol string) string {
	lowered := strings.ToLower(protocol)
	switch {
	case strings.Contains(lowered, "bold"), strings.Contains(lowered, "task"), strings.Contains(lowered, "rest"):
		return "func"
	case strings.Contains(lowered, "dwi"), strings.Contains(lowered, "dti"):
		return "dwi"
	case strings.Contains(lowered, "fmap"), strings.Contains(lowered, "fieldmap"), strings.Contains(lowered, "phasediff"):
		return "fmap"
	case strings.Contains(lowered, "t1"), strings.Contains(lowered, "t2"), strings.Contains(lowered, "flair"), strings.Contains(lowered, "mpr"):
		return "anat"
	default:
		return "misc"
	}
}
