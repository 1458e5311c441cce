package services

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pharmafind/backend/internal/domain/entities"
)

// similarityThreshold is the minimum name similarity for a catalog entry
// to qualify as a suggestion, on a 0-1 scale. Substring containment
// qualifies regardless of score.
const similarityThreshold = 0.2

// substringBoost is added to the similarity score of names that contain
// the query verbatim, so exact fragments outrank fuzzy lookalikes.
const substringBoost = 0.25

type scoredMedication struct {
	med   *entities.Medication
	score float64
}

// rankMedications scores the catalog against a query term and returns at
// most limit suggestions, best first. Qualification is trigram-or-substring
// so a lone edit-distance coincidence between unrelated names cannot admit
// noise; edit distance only refines the order of qualified candidates.
// Ties break on shorter commercial name, then on catalog order, so results
// are deterministic.
func rankMedications(term string, catalog []*entities.Medication, limit int) []entities.MedicationSuggestion {
	q := strings.ToLower(strings.TrimSpace(term))

	scored := make([]scoredMedication, 0, len(catalog))
	for _, med := range catalog {
		commercial, qualCommercial := nameSimilarity(q, med.CommercialName)
		dci, qualDCI := nameSimilarity(q, med.DCIName)

		if !qualCommercial && !qualDCI {
			continue
		}
		scored = append(scored, scoredMedication{
			med:   med,
			score: math.Max(commercial, dci),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return len(scored[i].med.CommercialName) < len(scored[j].med.CommercialName)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	suggestions := make([]entities.MedicationSuggestion, len(scored))
	for i, s := range scored {
		suggestions[i] = entities.MedicationSuggestion{
			ID:             s.med.ID,
			CommercialName: s.med.CommercialName,
			DCIName:        s.med.DCIName,
			DosageStrength: s.med.DosageStrength,
			DosageUnit:     s.med.DosageUnit,
		}
	}
	return suggestions
}

// nameSimilarity scores a lowercase query against one medication name and
// reports whether the name qualifies as a candidate. Qualification needs a
// trigram score above the threshold or a literal substring hit; the returned
// score additionally folds in edit similarity for ranking.
func nameSimilarity(q, name string) (float64, bool) {
	if name == "" || q == "" {
		return 0, false
	}
	n := strings.ToLower(name)

	tri := trigramSimilarity(q, n)
	score := math.Max(tri, editSimilarity(q, n))
	if strings.Contains(n, q) {
		return math.Min(1, score+substringBoost), true
	}
	return score, tri > similarityThreshold
}

// trigramSimilarity is a pg_trgm-style Jaccard similarity over character
// trigrams of the two strings, padded so short prefixes still overlap.
func trigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			shared++
		}
	}

	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	padded := "  " + s + " "
	runes := []rune(padded)
	grams := make(map[string]struct{})
	for i := 0; i+3 <= len(runes); i++ {
		grams[string(runes[i:i+3])] = struct{}{}
	}
	return grams
}

// editSimilarity maps Levenshtein distance to a 0-1 similarity.
func editSimilarity(a, b string) float64 {
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
