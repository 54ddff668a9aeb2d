package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewFakeUserGenerator()

	a := g.Generate("leuven-studio-045")
	b := g.Generate("leuven-studio-045")
	assert.Equal(t, a, b)
}

func TestGeneratePersonaShape(t *testing.T) {
	g := NewFakeUserGenerator()

	persona := g.Generate("gent-shared-012")
	require.NotEmpty(t, persona.Name)
	assert.Len(t, persona.Initials, 2)
	assert.Contains(t, personaColors, persona.AvatarColor)
	assert.Contains(t, personaTraits, persona.Personality)
	require.Len(t, persona.Interests, 3)

	seen := make(map[string]bool)
	for _, interest := range persona.Interests {
		assert.Contains(t, personaInterests, interest)
		assert.False(t, seen[interest], "duplicate interest %q", interest)
		seen[interest] = true
	}
}

func TestGenerateVariesAcrossSeeds(t *testing.T) {
	g := NewFakeUserGenerator()

	names := make(map[string]bool)
	for _, seed := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		names[g.Generate(seed).Name] = true
	}
	// Collisions are allowed, but eight seeds collapsing to one or two
	// personas would mean the digest is not being consumed properly.
	assert.Greater(t, len(names), 2)
}

func TestRecentCacheIsBounded(t *testing.T) {
	g := NewFakeUserGenerator()

	for i := 0; i < recentNameLimit*2; i++ {
		g.Generate(string(rune('a'+i%26)) + string(rune('0'+i%10)))
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	assert.LessOrEqual(t, len(g.recent), recentNameLimit)
}
