package generator

import (
	"math"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/talkincode/shopgen/internal/domain"
)

// Source is the single random stream of a run. The faker draws from the same
// stream, so phases must consume it in a fixed order to stay reproducible.
// A Source is not safe for concurrent use.
type Source struct {
	rnd   *rand.Rand
	faker *gofakeit.Faker
}

func NewSource(seed int64) *Source {
	faker := gofakeit.NewCustom(rand.NewSource(seed).(rand.Source64))
	return &Source{rnd: faker.Rand, faker: faker}
}

// IntRange returns a uniform int in [lo, hi].
func (s *Source) IntRange(lo, hi int) int {
	return lo + s.rnd.Intn(hi-lo+1)
}

// Intn returns a uniform int in [0, n).
func (s *Source) Intn(n int) int {
	return s.rnd.Intn(n)
}

func (s *Source) Float64() float64 {
	return s.rnd.Float64()
}

// LogNormal draws exp(mu + sigma*N(0,1)).
func (s *Source) LogNormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*s.rnd.NormFloat64())
}

// Date returns a uniform day in w, both ends included.
func (s *Source) Date(w Window) domain.Date {
	days := int(w.End.Sub(w.Start.Time).Hours() / 24)
	if days <= 0 {
		return w.Start
	}
	return w.Start.AddDays(s.rnd.Intn(days + 1))
}

func (s *Source) Pick(values []string) string {
	return values[s.rnd.Intn(len(values))]
}

func (s *Source) FirstName() string {
	return s.faker.FirstName()
}

func (s *Source) LastName() string {
	return s.faker.LastName()
}

func (s *Source) Email() string {
	return strings.ToLower(s.faker.Email())
}

// Title returns a capitalized random word.
func (s *Source) Title() string {
	w := s.faker.Word()
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
