// Package commitgen fabricates conventional-commit histories: it builds
// templated commit messages and drives the git CLI to record them.
package commitgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

const (
	detailProbability = 0.3
	bodyProbability   = 0.2
)

// Generator produces commit messages by uniform random selection over
// the fixed type/scope/template tables.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded from the clock
func NewGenerator() *Generator {
	return NewGeneratorWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGeneratorWithRand creates a Generator with a custom random source
// for deterministic tests
func NewGeneratorWithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

// capitalize upper-cases the first letter of s
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Message generates one commit message of the form
// "type(scope): Subject", optionally extended with a detail suffix and
// a body paragraph.
func (g *Generator) Message() string {
	commitType := pick(g.rng, CommitTypes)
	scope := pick(g.rng, Scopes)

	templates, ok := messageTemplates[commitType]
	if !ok {
		templates = featMessages
	}
	template := pick(g.rng, templates)

	subject := strings.ReplaceAll(template, "{scope}", scope)

	if g.rng.Float64() < detailProbability {
		subject += " " + pick(g.rng, detailSuffixes)
	}

	message := fmt.Sprintf("%s(%s): %s", commitType, scope, capitalize(subject))

	if g.rng.Float64() < bodyProbability {
		message += g.body(scope)
	}

	return message
}

// body picks one of the fixed body paragraphs
func (g *Generator) body(scope string) string {
	switch g.rng.Intn(4) {
	case 0:
		return fmt.Sprintf("\n\nThis change improves the %s functionality by\nimplementing better error handling and validation.", scope)
	case 1:
		return fmt.Sprintf("\n\nCloses #%d", g.rng.Intn(100)+1)
	case 2:
		return fmt.Sprintf("\n\nBREAKING CHANGE: %s API has been updated.", scope)
	default:
		return fmt.Sprintf("\n\nThis update enhances %s performance and reliability.", scope)
	}
}
