package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentences(t *testing.T) {
	sentences := Sentences("First one. Second!  Third?\nFourth line")

	assert.Equal(t, []string{"First one", "Second", "Third", "Fourth line"}, sentences)
}

func TestSentencesEmptyAndWhitespace(t *testing.T) {
	assert.Empty(t, Sentences(""))
	assert.Empty(t, Sentences("   \n  .  !  "))
}

func TestMatch(t *testing.T) {
	cues := []string{"only you", "só você"}

	assert.True(t, Match("well, only you forgot", cues))
	assert.True(t, Match("foi só você de novo", cues))
	assert.False(t, Match("everyone forgot", cues))
	assert.False(t, Match("anything", nil))
}

func TestDefaultTablesArePopulated(t *testing.T) {
	lex := Default()

	assert.NotEmpty(t, lex.Sarcasm)
	assert.NotEmpty(t, lex.Disengagement)
	assert.NotEmpty(t, lex.PublicShame)
	assert.NotEmpty(t, lex.Exclusion)
	assert.NotEmpty(t, lex.Aggression)
	assert.NotEmpty(t, lex.Prevention)
	assert.NotEmpty(t, lex.Responsibility)
	assert.NotEmpty(t, lex.Reporting)
	assert.NotEmpty(t, lex.InclusionGaps)

	require.NotEmpty(t, lex.Topics)
	assert.Equal(t, TopicBullying, lex.Topics[0].Tag)
}

func TestLoadEmptyPathFallsBackToDefault(t *testing.T) {
	lex, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), lex)
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yml")
	content := []byte(`sarcasm:
  - "zork"
topics:
  - tag: bullying
    cues:
      - "bullying"
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	lex, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"zork"}, lex.Sarcasm)
	require.Len(t, lex.Topics, 1)
	assert.Equal(t, []string{"bullying"}, lex.Topics[0].Cues)
	assert.Empty(t, lex.Aggression)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("sarcasm: {not: [valid"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}
