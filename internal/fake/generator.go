// Package fake produces synthetic values and records from schema field
// declarations.
package fake

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iamtinsae/mockify/internal/model"
)

// Age bounds, inclusive.
const (
	MinAge = 10
	MaxAge = 90
)

// Birth dates fall between these many years before now.
const (
	minBirthAge = 18
	maxBirthAge = 80
)

// UnsupportedTypeError is returned when a schema field carries a semantic
// type that has no generator.
type UnsupportedTypeError struct {
	Type model.SemanticType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("fake: semantic type %q is not supported", e.Type)
}

// Generator produces fake values. It is safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a Generator backed by the process-wide faker, which
// is randomly seeded and safe for concurrent use.
func NewGenerator() *Generator {
	return &Generator{
		faker: gofakeit.GlobalFaker,
		now:   time.Now,
	}
}

// Generate returns one value for t: a string for ID, NAME, ADDRESS,
// PHONE_NUMBER and WORD, an int for AGE and a time.Time for DATE.
func (g *Generator) Generate(t model.SemanticType) (any, error) {
	switch t {
	case model.TypeID:
		return primitive.NewObjectID().Hex(), nil
	case model.TypeName:
		return g.faker.Name(), nil
	case model.TypeAddress:
		return g.faker.City(), nil
	case model.TypePhoneNumber:
		return g.faker.PhoneFormatted(), nil
	case model.TypeAge:
		return g.faker.IntRange(MinAge, MaxAge), nil
	case model.TypeDate:
		return g.birthdate(), nil
	case model.TypeWord:
		return g.faker.Noun(), nil
	default:
		return nil, &UnsupportedTypeError{Type: t}
	}
}

func (g *Generator) birthdate() time.Time {
	now := g.now().UTC()
	start := now.AddDate(-maxBirthAge, 0, 0)
	end := now.AddDate(-minBirthAge, 0, 0)
	d := g.faker.DateRange(start, end)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
