// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// ErrMalformedOutput marks model output that cannot be used at all: no JSON
// region, unparseable JSON, or a structural schema violation. Callers treat
// it like an unavailable upstream.
var ErrMalformedOutput = errors.New("malformed model output")

// extractJSONObject returns the substring from the first '{' to the last
// '}' of raw. Models wrap their JSON in prose often enough that this cut is
// worth doing before parsing.
func extractJSONObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", ErrMalformedOutput)
	}
	return raw[start : end+1], nil
}

// Validate parses raw model output against the suggestion contract and
// sanitizes it against the request. Two passes: structural (any violation
// rejects the whole response, no partial repair) and semantic (individual
// suggestions are dropped or repaired). An empty list after sanitization is
// a valid result, not an error.
func Validate(raw string, req *types.SuggestRequest) (types.SuggestionSet, error) {
	region, err := extractJSONObject(raw)
	if err != nil {
		return types.SuggestionSet{}, err
	}

	var set types.SuggestionSet
	if err := json.Unmarshal([]byte(region), &set); err != nil {
		return types.SuggestionSet{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if err := checkStructure(set); err != nil {
		return types.SuggestionSet{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	return sanitize(set, req), nil
}

// checkStructure enforces the strict schema: required fields present,
// actions from the known set, relevance a usable number.
func checkStructure(set types.SuggestionSet) error {
	for i, s := range set.Suggestions {
		if s.PoiID == "" {
			return fmt.Errorf("suggestion %d: missing poiId", i)
		}
		if s.Action != types.ActionAdd && s.Action != types.ActionSwap {
			return fmt.Errorf("suggestion %d: unknown action %q", i, s.Action)
		}
		if s.Reason == "" {
			return fmt.Errorf("suggestion %d: missing reason", i)
		}
		if s.LongDescription == "" {
			return fmt.Errorf("suggestion %d: missing longDescription", i)
		}
		if math.IsNaN(s.Relevance) || math.IsInf(s.Relevance, 0) {
			return fmt.Errorf("suggestion %d: relevance is not a finite number", i)
		}
	}
	return nil
}

// sanitize applies per-suggestion semantic rules: drop references to
// unknown candidates, downgrade unusable swaps to adds, clamp relevance,
// and truncate to the requested maximum while preserving model order.
func sanitize(set types.SuggestionSet, req *types.SuggestRequest) types.SuggestionSet {
	candidateIDs := make(map[string]bool, len(req.Candidates))
	for _, c := range req.Candidates {
		candidateIDs[c.ID] = true
	}
	stopIDs := make(map[string]bool)
	if req.TripContext != nil {
		for _, s := range req.TripContext.Stops {
			if s.ID != "" {
				stopIDs[s.ID] = true
			}
		}
	}

	out := types.SuggestionSet{Summary: set.Summary, Suggestions: []types.Suggestion{}}
	for _, s := range set.Suggestions {
		if !candidateIDs[s.PoiID] {
			continue
		}
		if s.Action == types.ActionSwap && !stopIDs[s.TargetPoiID] {
			s.Action = types.ActionAdd
			s.TargetPoiID = ""
		}
		if s.Action == types.ActionAdd {
			s.TargetPoiID = ""
		}
		s.Relevance = clamp01(s.Relevance)
		if s.Highlights == nil {
			s.Highlights = []string{}
		}
		out.Suggestions = append(out.Suggestions, s)
	}

	if max := req.MaxSuggestions(); len(out.Suggestions) > max {
		out.Suggestions = out.Suggestions[:max]
	}
	return out
}
