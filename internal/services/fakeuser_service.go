package services

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"sync"

	"unistay/internal/models"
)

var personaFirstNames = []string{
	"Alex", "Sam", "Jordan", "Taylor", "Casey", "Riley", "Morgan", "Jamie",
	"Avery", "Quinn", "Maya", "Leo", "Nina", "Omar", "Priya", "Felix",
	"Ines", "Hugo", "Zara", "Noah", "Lena", "Ravi", "Sofia", "Emil",
}

var personaLastNames = []string{
	"Kim", "Patel", "Nguyen", "Garcia", "Smith", "Okafor", "Berg", "Rossi",
	"Tanaka", "Silva", "Novak", "Ahmed", "Dubois", "Keller", "Ivanov", "Costa",
}

var personaColors = []string{
	"#E57373", "#64B5F6", "#81C784", "#FFD54F", "#BA68C8", "#4DB6AC",
	"#F06292", "#A1887F", "#90A4AE", "#7986CB",
}

var personaTraits = []string{
	"early riser", "night owl", "quiet and tidy", "social butterfly",
	"study-focused", "loves cooking", "always traveling", "gym regular",
}

var personaInterests = []string{
	"hiking", "board games", "photography", "cycling", "music", "cooking",
	"film", "climbing", "reading", "football", "yoga", "gaming",
}

// FakeUserGenerator derives display personas for community listings from a
// listing's seed string. The same seed always yields the same persona.
// Uniqueness across seeds is not guaranteed; collisions are accepted.
type FakeUserGenerator struct {
	mu     sync.Mutex
	recent map[string]bool // bounded cache of recently handed-out names
}

const recentNameLimit = 512

func NewFakeUserGenerator() *FakeUserGenerator {
	return &FakeUserGenerator{recent: make(map[string]bool)}
}

// Generate builds a persona from a hash of the seed. Deterministic: every
// field is picked by an independent chunk of the digest.
func (g *FakeUserGenerator) Generate(seed string) models.FakeUser {
	digest := sha256.Sum256([]byte(seed))

	pick := func(offset int, n int) int {
		v := binary.BigEndian.Uint32(digest[offset : offset+4])
		return int(v % uint32(n))
	}

	first := personaFirstNames[pick(0, len(personaFirstNames))]
	last := personaLastNames[pick(4, len(personaLastNames))]
	name := first + " " + last

	interests := make([]string, 0, 3)
	seen := make(map[string]bool, 3)
	for i := 8; len(interests) < 3 && i < 20; i++ {
		interest := personaInterests[int(digest[i])%len(personaInterests)]
		if !seen[interest] {
			seen[interest] = true
			interests = append(interests, interest)
		}
	}

	g.remember(name)

	return models.FakeUser{
		Name:        name,
		Initials:    initials(first, last),
		AvatarColor: personaColors[pick(20, len(personaColors))],
		Personality: personaTraits[pick(24, len(personaTraits))],
		Interests:   interests,
	}
}

// remember tracks recently generated names. The cache is bounded and reset
// when full; it exists only to make repeats observable in logs, not to
// enforce uniqueness.
func (g *FakeUserGenerator) remember(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.recent) >= recentNameLimit {
		g.recent = make(map[string]bool)
	}
	g.recent[name] = true
}

func initials(first, last string) string {
	var b strings.Builder
	if first != "" {
		b.WriteString(first[:1])
	}
	if last != "" {
		b.WriteString(last[:1])
	}
	return strings.ToUpper(b.String())
}
