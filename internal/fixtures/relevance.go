package fixtures

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// DefaultHighLeagues are the top-relevance competitions
var DefaultHighLeagues = []string{
	"Premier League",
	"LaLiga",
	"La Liga",
	"Serie A",
	"Bundesliga",
	"Ligue 1",
	"UEFA Champions League",
	"Brasileirão Série A",
	"Copa Libertadores",
}

// DefaultMediumLeagues are second-tier competitions
var DefaultMediumLeagues = []string{
	"Championship",
	"Eredivisie",
	"Liga Portugal",
	"Primeira Liga",
	"UEFA Europa League",
	"UEFA Conference League",
	"Brasileirão Série B",
	"Copa do Brasil",
	"Copa Sudamericana",
	"Liga Profesional Argentina",
	"MLS",
	"Süper Lig",
	"Belgian Pro League",
	"Scottish Premiership",
}

// RelevanceTable tags leagues by relevance. Names are compared ignoring
// case, accents and punctuation. Unlisted leagues are low relevance.
type RelevanceTable struct {
	leagues map[string]models.Relevance
}

// NewRelevanceTable builds a table from high and medium league lists. A
// league listed in both is high.
func NewRelevanceTable(high, medium []string) *RelevanceTable {
	t := &RelevanceTable{leagues: make(map[string]models.Relevance, len(high)+len(medium))}
	for _, name := range medium {
		t.leagues[normalizeName(name)] = models.RelevanceMedium
	}
	for _, name := range high {
		t.leagues[normalizeName(name)] = models.RelevanceHigh
	}
	return t
}

// Lookup returns the relevance of a league
func (t *RelevanceTable) Lookup(league string) models.Relevance {
	if t == nil {
		return models.RelevanceLow
	}
	if r, ok := t.leagues[normalizeName(league)]; ok {
		return r
	}
	return models.RelevanceLow
}

// normalizeName lowercases, strips accents and collapses punctuation and spaces
func normalizeName(name string) string {
	name = strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, name)

	return strings.Join(strings.Fields(name), " ")
}
