package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pharmafind/backend/internal/domain/entities"
)

func catalog() []*entities.Medication {
	return []*entities.Medication{
		{ID: "m1", CommercialName: "Doliprane", DCIName: "Paracetamol"},
		{ID: "m2", CommercialName: "Dafalgan", DCIName: "Paracetamol"},
		{ID: "m3", CommercialName: "Efferalgan", DCIName: "Paracetamol"},
		{ID: "m4", CommercialName: "Amoxiciline Biogaran", DCIName: "Amoxicilline"},
		{ID: "m5", CommercialName: "Spasfon", DCIName: "Phloroglucinol"},
	}
}

func TestRankMedications_ExactNameFirst(t *testing.T) {
	got := rankMedications("Doliprane", catalog(), 10)

	assert.NotEmpty(t, got)
	assert.Equal(t, "m1", got[0].ID)
}

func TestRankMedications_TypoStillMatches(t *testing.T) {
	got := rankMedications("dolipran", catalog(), 10)

	assert.NotEmpty(t, got)
	assert.Equal(t, "m1", got[0].ID)
}

func TestRankMedications_MatchesGenericName(t *testing.T) {
	got := rankMedications("paracetamol", catalog(), 10)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Contains(t, ids, "m1")
	assert.Contains(t, ids, "m2")
	assert.Contains(t, ids, "m3")
	assert.NotContains(t, ids, "m5")
}

func TestRankMedications_SubstringQualifies(t *testing.T) {
	got := rankMedications("spas", catalog(), 10)

	assert.Len(t, got, 1)
	assert.Equal(t, "m5", got[0].ID)
}

func TestRankMedications_RespectsLimit(t *testing.T) {
	got := rankMedications("paracetamol", catalog(), 2)
	assert.Len(t, got, 2)
}

func TestRankMedications_NoMatchReturnsEmpty(t *testing.T) {
	got := rankMedications("xyzzy", catalog(), 10)
	assert.Empty(t, got)
}

func TestRankMedications_PrefersCloserShorterName(t *testing.T) {
	meds := []*entities.Medication{
		{ID: "long", CommercialName: "Ibuprofene Arrow Forte"},
		{ID: "short", CommercialName: "Ibuprofene"},
	}

	// Both contain the query; the shorter commercial name is the closer
	// match and must win regardless of catalog order.
	got := rankMedications("ibuprofene", meds, 10)
	assert.Len(t, got, 2)
	assert.Equal(t, "short", got[0].ID)
}

func TestTrigramSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, trigramSimilarity("doliprane", "doliprane"))
	assert.Greater(t, trigramSimilarity("doliprane", "dolipran"), 0.5)
	assert.Less(t, trigramSimilarity("doliprane", "spasfon"), 0.1)
}

func TestEditSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, editSimilarity("abc", "abc"))
	assert.InDelta(t, 1-1.0/9, editSimilarity("doliprane", "dolipran"), 0.001)
	assert.Equal(t, 0.0, editSimilarity("", ""))
}
