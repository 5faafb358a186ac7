// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package suggest validates model-produced POI suggestions and synthesizes
// deterministic local ones when the model cannot be used. Both paths emit
// the same strict output contract: every suggestion references a candidate
// from the request, swap suggestions always carry a target, and relevance
// stays within [0,1].
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

// Scoring weights for local ranking. Mirrors the weighting the prompt asks
// the model to apply, so fallback results stay comparable.
const (
	mustSeeBonus = 35
	curatedBonus = 15
	unescoBonus  = 20
	indoorBonus  = 20 // only under bad weather
	detourFactor = 0.5
)

// score ranks a candidate for the current conditions. A missing detour
// contributes nothing.
func score(c types.Candidate, badWeather bool) float64 {
	s := c.Score
	if c.MustSee {
		s += mustSeeBonus
	}
	if c.Curated {
		s += curatedBonus
	}
	if c.Unesco {
		s += unescoBonus
	}
	if badWeather && c.Indoor {
		s += indoorBonus
	}
	if c.DetourKm != nil {
		s -= *c.DetourKm * detourFactor
	}
	return s
}

// relevanceFromScore maps a ranking score into the [0,1] output domain.
func relevanceFromScore(s float64) float64 {
	return clamp01((s + 20) / 160)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Synthesize builds a suggestion set from the caller's own candidates
// without any external call. It is a pure function: identical requests
// yield identical output. Ranking is by score descending with the original
// candidate order as a stable tie-break.
func Synthesize(req *types.SuggestRequest) types.SuggestionSet {
	badWeather := req.Weather().Bad()
	allowSwap := req.AllowSwap()
	firstStopID := req.FirstStopID()

	ranked := make([]types.Candidate, len(req.Candidates))
	copy(ranked, req.Candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i], badWeather) > score(ranked[j], badWeather)
	})

	if max := req.MaxSuggestions(); len(ranked) > max {
		ranked = ranked[:max]
	}

	suggestions := make([]types.Suggestion, 0, len(ranked))
	for i, c := range ranked {
		s := score(c, badWeather)

		action := types.ActionAdd
		targetID := ""
		if i == 0 && allowSwap && firstStopID != "" && badWeather {
			action = types.ActionSwap
			targetID = firstStopID
		}

		suggestions = append(suggestions, types.Suggestion{
			PoiID:           c.ID,
			Action:          action,
			TargetPoiID:     targetID,
			Reason:          reasonFor(c, badWeather),
			Relevance:       relevanceFromScore(s),
			Highlights:      highlightsFor(c, badWeather),
			LongDescription: longDescriptionFor(c),
		})
	}

	summary := "Fallback-Empfehlungen wurden lokal aus Kandidaten erstellt."
	if len(suggestions) == 0 {
		summary = "Keine passenden POIs gefunden."
	}
	return types.SuggestionSet{Summary: summary, Suggestions: suggestions}
}

func reasonFor(c types.Candidate, badWeather bool) string {
	if badWeather && c.Indoor {
		return fmt.Sprintf("%s passt wetterbedingt als Indoor-Alternative.", c.Name)
	}
	return fmt.Sprintf("%s hat hohe Relevanz fuer die aktuelle Route.", c.Name)
}

func highlightsFor(c types.Candidate, badWeather bool) []string {
	highlights := []string{}
	if c.MustSee {
		highlights = append(highlights, "Must-See")
	}
	if c.Unesco {
		highlights = append(highlights, "UNESCO")
	}
	if c.Curated {
		highlights = append(highlights, "Kuratiert")
	}
	if badWeather && c.Indoor {
		highlights = append(highlights, "Indoor bei schlechtem Wetter")
	}
	return highlights
}

func longDescriptionFor(c types.Candidate) string {
	if short := strings.TrimSpace(c.ShortDescription); short != "" {
		return short
	}
	return fmt.Sprintf("%s (%s) ist ein starker Kandidat mit Score %g.", c.Name, c.CategoryID, c.Score)
}
