// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jerdnaandrej777/mapab-app/pkg/types"
)

const chatSystemPrompt = `Du bist ein hilfreicher Reiseassistent für die MapAB App - eine App für Roadtrips und Sightseeing in Europa.

Deine Aufgaben:
- Beantworte Fragen zu Sehenswürdigkeiten, Routen und Reiseplanung
- Gib hilfreiche Tipps für Roadtrips
- Empfehle interessante POIs (Points of Interest) basierend auf den Interessen des Nutzers
- Hilf bei der Routenoptimierung

Wichtige Regeln:
- Antworte immer auf Deutsch
- Halte dich kurz und prägnant (max 2-3 Absätze)
- Sei freundlich und hilfsbereit
- Wenn du keine Information hast, sage es ehrlich
- Formatiere Listen mit Aufzählungszeichen für bessere Lesbarkeit`

// buildChatSystemPrompt appends the caller's current trip state to the base
// chat role prompt.
func buildChatSystemPrompt(ctx *types.TripContext) string {
	if ctx == nil {
		return chatSystemPrompt
	}

	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	b.WriteString("\n\nAktuelle Trip-Informationen:")

	if ctx.RouteStart != "" && ctx.RouteEnd != "" {
		fmt.Fprintf(&b, "\n- Route: %s -> %s", ctx.RouteStart, ctx.RouteEnd)
	}
	if ctx.DistanceKm > 0 {
		fmt.Fprintf(&b, "\n- Entfernung: %.1f km", ctx.DistanceKm)
	}
	if ctx.DurationMinutes > 0 {
		fmt.Fprintf(&b, "\n- Fahrtzeit: %dh %dmin", ctx.DurationMinutes/60, ctx.DurationMinutes%60)
	}
	if len(ctx.Stops) > 0 {
		names := make([]string, len(ctx.Stops))
		for i, s := range ctx.Stops {
			names[i] = s.Name
		}
		fmt.Fprintf(&b, "\n- Geplante Stops: %s", strings.Join(names, ", "))
	}
	return b.String()
}

const tripPlanSystemPrompt = `Du bist ein professioneller Reiseplaner für die MapAB App.

Deine Aufgabe ist es, detaillierte Tagesreisepläne zu erstellen.

Format deiner Antwort:
1. Kurze Einleitung (1-2 Sätze)
2. Für jeden Tag:
   - **Tag X: [Titel]**
   - Morgens: [Aktivitäten]
   - Mittags: [Aktivitäten + Essensempfehlung]
   - Nachmittags: [Aktivitäten]
   - Abends: [Aktivitäten + ggf. Unterkunftsempfehlung]
3. Praktische Tipps am Ende

Regeln:
- Antworte immer auf Deutsch
- Berücksichtige die angegebenen Interessen
- Schlage realistische Zeitpläne vor
- Erwähne konkrete POIs und Sehenswürdigkeiten
- Gib Schätzungen für Fahrzeiten zwischen Orten`

// buildTripPlanPrompt renders the user prompt for a trip plan request.
func buildTripPlanPrompt(req *types.TripPlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Erstelle einen %d-Tage Reiseplan", req.Days)

	switch {
	case req.Destination != "":
		fmt.Fprintf(&b, " für %s", req.Destination)
	case req.StartLocation != "":
		fmt.Fprintf(&b, " mit Start in %s (Ziel: Rundreise/Überraschung)", req.StartLocation)
	default:
		b.WriteString(" (beliebiges Ziel)")
	}

	fmt.Fprintf(&b, ".\n\nInteressen: %s", strings.Join(req.Interests, ", "))

	if req.Destination == "" && req.StartLocation != "" {
		fmt.Fprintf(&b, "\n\nHinweis: Der Nutzer hat kein spezifisches Ziel angegeben. Schlage eine interessante Route/Rundreise ausgehend von %s vor, die zu den Interessen passt.", req.StartLocation)
	}
	return b.String()
}

const suggestionsSystemPrompt = `Du bist ein Empfehlungssystem für Sehenswürdigkeiten in der MapAB App.

Du erhältst eine Liste von POI-Kandidaten mit Bewertung und Attributen sowie den aktuellen Routen- und Wetterkontext. Wähle die passendsten Kandidaten aus und begründe jede Empfehlung kurz.

Regeln:
- Verwende ausschließlich Kandidaten aus der Liste, niemals eigene POIs
- Bei schlechtem Wetter bevorzuge Indoor-Kandidaten
- "swap" nur, wenn ein vorhandener Stop sinnvoll ersetzt werden kann; sonst "add"
- Antworte ausschließlich mit dem geforderten JSON-Objekt, ohne Text davor oder danach`

// suggestionsUserPromptTmpl renders the structured suggestions prompt. The
// response format block doubles as the output contract the validator
// enforces.
var suggestionsUserPromptTmpl = template.Must(template.New("suggestions").Parse(`Erzeuge strukturierte POI-Empfehlungen als JSON-Objekt.

Modus: {{.Mode}}
Sprache: {{.Language}}
Ort: {{.Location}}
Wetter: {{.Weather}}
Route: {{.RouteStart}} -> {{.RouteEnd}}
Stops: {{.Stops}}
maxSuggestions: {{.MaxSuggestions}}
allowSwap: {{.AllowSwap}}

Kandidaten:
{{.Candidates}}

Antworte exakt im Format:
{
  "summary": "...",
  "suggestions": [
    {
      "poiId": "...",
      "action": "add|swap",
      "targetPoiId": "... optional bei swap",
      "reason": "...",
      "relevance": 0.0,
      "highlights": ["..."],
      "longDescription": "..."
    }
  ]
}`))

// buildSuggestionsPrompt renders the user prompt for a suggestions request.
func buildSuggestionsPrompt(req *types.SuggestRequest) (string, error) {
	language := req.Language
	if language == "" {
		language = "de"
	}
	location := "Unbekannt"
	weather := string(types.WeatherUnknown)
	if req.UserContext != nil {
		if req.UserContext.LocationName != "" {
			location = req.UserContext.LocationName
		}
		if req.UserContext.Weather != "" {
			weather = string(req.UserContext.Weather)
		}
	}

	routeStart, routeEnd := "n/a", "n/a"
	stops := "Keine Stops"
	if req.TripContext != nil {
		if req.TripContext.RouteStart != "" {
			routeStart = req.TripContext.RouteStart
		}
		if req.TripContext.RouteEnd != "" {
			routeEnd = req.TripContext.RouteEnd
		}
		if len(req.TripContext.Stops) > 0 {
			parts := make([]string, len(req.TripContext.Stops))
			for i, s := range req.TripContext.Stops {
				part := s.Name
				if s.ID != "" {
					part += fmt.Sprintf(" (%s)", s.ID)
				}
				if s.Day > 0 {
					part += fmt.Sprintf(" Tag %d", s.Day)
				}
				parts[i] = part
			}
			stops = strings.Join(parts, ", ")
		}
	}

	var candidates strings.Builder
	for _, c := range req.Candidates {
		detour := "?"
		if c.DetourKm != nil {
			detour = fmt.Sprintf("%g", *c.DetourKm)
		}
		position := "?"
		if c.RoutePosition != nil {
			position = fmt.Sprintf("%g", *c.RoutePosition)
		}
		fmt.Fprintf(&candidates,
			"- id=%s; name=%s; category=%s; score=%g; mustSee=%t; curated=%t; unesco=%t; indoor=%t; detourKm=%s; routePosition=%s; short=%s; tags=%s\n",
			c.ID, c.Name, c.CategoryID, c.Score, c.MustSee, c.Curated, c.Unesco, c.Indoor,
			detour, position, c.ShortDescription, strings.Join(c.Tags, ", "))
	}

	var buf bytes.Buffer
	err := suggestionsUserPromptTmpl.Execute(&buf, map[string]any{
		"Mode":           req.Mode,
		"Language":       language,
		"Location":       location,
		"Weather":        weather,
		"RouteStart":     routeStart,
		"RouteEnd":       routeEnd,
		"Stops":          stops,
		"MaxSuggestions": req.MaxSuggestions(),
		"AllowSwap":      req.AllowSwap(),
		"Candidates":     strings.TrimRight(candidates.String(), "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("rendering suggestions prompt: %w", err)
	}
	return buf.String(), nil
}
