package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionPoliciesMergesRatiosAndBands(t *testing.T) {
	policies := parseSectionPolicies(
		"infant:5,toddler:8,preschool:10",
		"infant:3-12,toddler:13-36,preschool:37-72",
	)

	require.Len(t, policies, 3)
	assert.Equal(t, SectionPolicy{Ratio: 5, MinAgeMonths: 3, MaxAgeMonths: 12}, policies["infant"])
	assert.Equal(t, SectionPolicy{Ratio: 8, MinAgeMonths: 13, MaxAgeMonths: 36}, policies["toddler"])
	assert.Equal(t, SectionPolicy{Ratio: 10, MinAgeMonths: 37, MaxAgeMonths: 72}, policies["preschool"])
}

func TestParseSectionPoliciesSkipsMalformedEntries(t *testing.T) {
	policies := parseSectionPolicies(
		"infant:5,broken,toddler:zero,preschool:-2,baby:4",
		"infant:12-3,baby:0-12,orphanband",
	)

	require.Len(t, policies, 2)
	assert.Equal(t, SectionPolicy{Ratio: 5}, policies["infant"])
	assert.Equal(t, SectionPolicy{Ratio: 4, MinAgeMonths: 0, MaxAgeMonths: 12}, policies["baby"])
}

func TestParseSectionPoliciesTrimsWhitespace(t *testing.T) {
	policies := parseSectionPolicies(" infant : 5 , toddler : 8 ", " infant : 3-12 ")

	require.Contains(t, policies, "infant")
	assert.Equal(t, SectionPolicy{Ratio: 5, MinAgeMonths: 3, MaxAgeMonths: 12}, policies["infant"])
	assert.Equal(t, 8, policies["toddler"].Ratio)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, parseDuration("", 5*time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, parseDuration("oops", 5*time.Minute))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,"))
}
