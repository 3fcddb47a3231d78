package heuristic

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"fwbids/internal/bids"
	"fwbids/internal/query"
)

const (
	classifyFuncName = "InfoToDict"
	intendedForName  = "IntendedFor"
)

// goHeuristic wraps a classification function evaluated from a user-supplied
// Go source file.
type goHeuristic struct {
	path       string
	classify   reflect.Value
	intentions Intentions
}

var _ Heuristic = (*goHeuristic)(nil)
var _ IntentionProvider = (*goHeuristic)(nil)

// loadGoFile interprets path and binds its InfoToDict entry point. The file
// must define
//
//	func InfoToDict(seqs []map[string]any) ([]map[string]any, error)
//
// where each returned entry holds a "key" destination template and the
// "series" ids matched to it. An optional package-level IntendedFor variable
// declares intention cross-references.
func loadGoFile(path string) (Heuristic, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrLoad, path)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("%w: prepare interpreter: %v", ErrLoad, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("%w: interpret %s: %v", ErrLoad, path, err)
	}

	fnValue, err := i.Eval(classifyFuncName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must define %s(seqs []map[string]any) ([]map[string]any, error): %v",
			ErrLoad, path, classifyFuncName, err)
	}
	if !fnValue.IsValid() || fnValue.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s: %s is not a function", ErrLoad, path, classifyFuncName)
	}

	intentions, err := evalIntentions(i, path)
	if err != nil {
		return nil, err
	}

	return &goHeuristic{path: path, classify: fnValue, intentions: intentions}, nil
}

func (h *goHeuristic) Classify(seqInfos []query.SeqInfo) ([]Mapping, error) {
	seqMaps := make([]map[string]any, 0, len(seqInfos))
	index := make(map[string]query.SeqInfo, len(seqInfos))
	for _, info := range seqInfos {
		seqMaps = append(seqMaps, info.ToMap())
		index[info.SeriesID] = info
	}

	entries, err := invokeClassify(h.classify, seqMaps)
	if err != nil {
		return nil, fmt.Errorf("heuristic %s: %w", h.path, err)
	}

	mappings := make([]Mapping, 0, len(entries))
	for idx, entry := range entries {
		rawKey, ok := entry["key"].(string)
		if !ok || strings.TrimSpace(rawKey) == "" {
			return nil, fmt.Errorf("heuristic %s: entry[%d] missing string \"key\"", h.path, idx)
		}
		series, err := seriesIDs(entry["series"])
		if err != nil {
			return nil, fmt.Errorf("heuristic %s: entry[%d]: %w", h.path, idx, err)
		}
		matched := make([]query.SeqInfo, 0, len(series))
		for _, id := range series {
			info, ok := index[id]
			if !ok {
				return nil, fmt.Errorf("heuristic %s: entry[%d] references unknown series %q", h.path, idx, id)
			}
			matched = append(matched, info)
		}
		mappings = append(mappings, Mapping{Key: bids.Key(rawKey), SeqInfos: matched})
	}
	if err := validateMappings(mappings); err != nil {
		return nil, fmt.Errorf("heuristic %s: %w", h.path, err)
	}
	return mappings, nil
}

func (h *goHeuristic) Intentions() Intentions {
	return h.intentions
}

func invokeClassify(fn reflect.Value, seqMaps []map[string]any) ([]map[string]any, error) {
	results := fn.Call([]reflect.Value{reflect.ValueOf(seqMaps)})
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any, error)", classifyFuncName)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if callErr, ok := results[1].Interface().(error); ok && callErr != nil {
			return nil, callErr
		}
		return nil, fmt.Errorf("%s returned a non-error second value", classifyFuncName)
	}

	raw := results[0]
	if entries, ok := raw.Interface().([]map[string]any); ok {
		return entries, nil
	}
	if raw.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s must return []map[string]any", classifyFuncName)
	}
	entries := make([]map[string]any, raw.Len())
	for i := 0; i < raw.Len(); i++ {
		entry, ok := raw.Index(i).Interface().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s result[%d] is not map[string]any", classifyFuncName, i)
		}
		entries[i] = entry
	}
	return entries, nil
}

func seriesIDs(raw any) ([]string, error) {
	switch value := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return value, nil
	case []any:
		ids := make([]string, 0, len(value))
		for _, entry := range value {
			id, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("series entries must be strings, got %T", entry)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return nil, fmt.Errorf("\"series\" must be a list of series ids, got %T", raw)
}

func evalIntentions(i *interp.Interpreter, path string) (Intentions, error) {
	value, err := i.Eval(intendedForName)
	if err != nil {
		// Optional attribute: absence is not an error.
		return nil, nil
	}
	switch mapping := value.Interface().(type) {
	case map[string][]string:
		return Intentions(mapping), nil
	case map[string]any:
		intentions := make(Intentions, len(mapping))
		for key, raw := range mapping {
			refs, err := seriesIDs(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %s[%q]: %v", ErrLoad, path, intendedForName, key, err)
			}
			intentions[key] = refs
		}
		return intentions, nil
	}
	return nil, fmt.Errorf("%w: %s: %s must be map[string][]string", ErrLoad, path, intendedForName)
}
