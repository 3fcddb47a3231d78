package heuristic

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"fwbids/internal/bids"
	"fwbids/internal/query"
)

// ruleFile is the YAML document shape for declarative heuristics.
type ruleFile struct {
	Rules       []rule              `yaml:"rules"`
	IntendedFor map[string][]string `yaml:"intended_for"`
}

type rule struct {
	Template string    `yaml:"template"`
	Match    ruleMatch `yaml:"match"`
}

type ruleMatch struct {
	Protocol  string `yaml:"protocol"`
	ImageType string `yaml:"image_type"`
	MinDim4   int    `yaml:"min_dim4"`
	MaxDim4   int    `yaml:"max_dim4"`
}

// ruleHeuristic classifies sequences with an ordered list of pattern rules.
// Every rule contributes one destination, in file order, whether or not any
// sequence matched it.
type ruleHeuristic struct {
	path       string
	rules      []compiledRule
	intentions Intentions
}

type compiledRule struct {
	key       bids.Key
	protocol  *regexp.Regexp
	imageType *regexp.Regexp
	minDim4   int
	maxDim4   int
}

var _ Heuristic = (*ruleHeuristic)(nil)
var _ IntentionProvider = (*ruleHeuristic)(nil)

func loadRuleFile(path string) (Heuristic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}
	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrLoad, path, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("%w: %s declares no rules", ErrLoad, path)
	}

	compiled := make([]compiledRule, 0, len(doc.Rules))
	for idx, r := range doc.Rules {
		key := bids.Key(strings.TrimSpace(r.Template))
		if err := key.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s rule[%d]: %v", ErrLoad, path, idx, err)
		}
		cr := compiledRule{key: key, minDim4: r.Match.MinDim4, maxDim4: r.Match.MaxDim4}
		if r.Match.Protocol != "" {
			if cr.protocol, err = regexp.Compile(r.Match.Protocol); err != nil {
				return nil, fmt.Errorf("%w: %s rule[%d] protocol pattern: %v", ErrLoad, path, idx, err)
			}
		}
		if r.Match.ImageType != "" {
			if cr.imageType, err = regexp.Compile(r.Match.ImageType); err != nil {
				return nil, fmt.Errorf("%w: %s rule[%d] image_type pattern: %v", ErrLoad, path, idx, err)
			}
		}
		if cr.protocol == nil && cr.imageType == nil && cr.minDim4 == 0 && cr.maxDim4 == 0 {
			return nil, fmt.Errorf("%w: %s rule[%d] has no match conditions", ErrLoad, path, idx)
		}
		compiled = append(compiled, cr)
	}

	var intentions Intentions
	if doc.IntendedFor != nil {
		intentions = Intentions(doc.IntendedFor)
	}
	return &ruleHeuristic{path: path, rules: compiled, intentions: intentions}, nil
}

func (h *ruleHeuristic) Classify(seqInfos []query.SeqInfo) ([]Mapping, error) {
	mappings := make([]Mapping, 0, len(h.rules))
	for _, r := range h.rules {
		mapping := Mapping{Key: r.key}
		for _, info := range seqInfos {
			if r.matches(info) {
				mapping.SeqInfos = append(mapping.SeqInfos, info)
			}
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}

func (h *ruleHeuristic) Intentions() Intentions {
	return h.intentions
}

func (r compiledRule) matches(info query.SeqInfo) bool {
	if r.protocol != nil && !r.protocol.MatchString(info.ProtocolName) {
		return false
	}
	if r.imageType != nil && !r.imageType.MatchString(info.ImageType) {
		return false
	}
	if r.minDim4 > 0 && info.Dim4 < r.minDim4 {
		return false
	}
	if r.maxDim4 > 0 && info.Dim4 > r.maxDim4 {
		return false
	}
	return true
}
