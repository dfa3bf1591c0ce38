package dict

import (
	"iter"

	"github.com/brianvoe/gofakeit/v7"
)

// Generator draws random person records from gofakeit.
// A Generator is not safe for concurrent use, create one per goroutine.
type Generator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewGenerator with seed 0 uses a random seed, so every run differs.
// Any other seed gives a reproducible sequence.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		seed:  seed,
	}
}

func (g *Generator) Seed() uint64 {
	return g.seed
}

// Next draws the fields independently: the email is not derived from the name.
func (g *Generator) Next() Record {
	return Record{
		Name:  g.faker.Name(),
		Age:   g.faker.Number(MIN_AGE, MAX_AGE),
		Email: g.faker.Email(),
	}
}

// Records yields n fresh records lazily. The sequence is not restartable:
// ranging over it twice draws new values.
func (g *Generator) Records(n int) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for i := 0; i < n; i++ {
			if !yield(g.Next()) {
				return
			}
		}
	}
}

// Collect generates n records into a slice.
func (g *Generator) Collect(n int) []Record {
	if n < 0 {
		n = 0
	}
	records := make([]Record, 0, n)
	for r := range g.Records(n) {
		records = append(records, r)
	}
	return records
}
