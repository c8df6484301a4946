package reducer

import (
	"math"
	"sort"

	"github.com/acssjr/analisador-questoes-concurso-sub000/internal/core/model"
)

// consolidationKeyLen is how much of the description participates in the
// grouping key. This is a deliberately approximate match: two semantically
// identical patterns phrased differently never merge, which understates
// votes and confidence. Known limitation, kept as-is.
const consolidationKeyLen = 50

type patternKey struct {
	Type   string
	Prefix string
}

func keyOf(f model.RawFinding) patternKey {
	runes := []rune(f.Description)
	if len(runes) > consolidationKeyLen {
		runes = runes[:consolidationKeyLen]
	}
	return patternKey{Type: f.Type, Prefix: string(runes)}
}

// Consolidate merges the raw pattern candidates of all successful passes by
// majority vote. Vote count is the number of contributing passes; evidence
// ids are the deduplicated union across contributors. Output is sorted by
// votes descending, ties broken by type then description for determinism.
func Consolidate(passFindings [][]model.RawFinding, totalPasses int) []model.PatternFinding {
	type group struct {
		finding  model.RawFinding
		votes    int
		evidence []string
		seen     map[string]bool
	}

	groups := map[patternKey]*group{}
	var order []patternKey

	for _, findings := range passFindings {
		counted := map[patternKey]bool{}
		for _, f := range findings {
			key := keyOf(f)
			g, ok := groups[key]
			if !ok {
				g = &group{finding: f, seen: map[string]bool{}}
				groups[key] = g
				order = append(order, key)
			}
			if !counted[key] {
				g.votes++
				counted[key] = true
			}
			for _, id := range f.EvidenceIDs {
				if !g.seen[id] {
					g.seen[id] = true
					g.evidence = append(g.evidence, id)
				}
			}
		}
	}

	highCutoff := int(math.Ceil(0.6 * float64(totalPasses)))
	mediumCutoff := int(math.Ceil(0.4 * float64(totalPasses)))

	out := make([]model.PatternFinding, 0, len(order))
	for _, key := range order {
		g := groups[key]
		confidence := model.ConfidenceLow
		switch {
		case g.votes >= highCutoff:
			confidence = model.ConfidenceHigh
		case g.votes >= mediumCutoff:
			confidence = model.ConfidenceMedium
		}
		out = append(out, model.PatternFinding{
			Type:        g.finding.Type,
			Description: g.finding.Description,
			EvidenceIDs: g.evidence,
			Votes:       g.votes,
			Confidence:  confidence,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Description < out[j].Description
	})
	return out
}
