package fake

import "github.com/iamtinsae/mockify/internal/model"

// Record is one synthesized object, keyed by schema field name.
type Record map[string]any

// Synthesize builds a record by generating one value per field, in order.
// When two fields share a name the later one wins. An empty field list
// yields an empty record.
func (g *Generator) Synthesize(fields []model.SchemaField) (Record, error) {
	rec := make(Record, len(fields))
	for _, f := range fields {
		v, err := g.Generate(f.Type)
		if err != nil {
			return nil, err
		}
		rec[f.Name] = v
	}
	return rec, nil
}

// SynthesizeN builds n records from the same field list.
func (g *Generator) SynthesizeN(fields []model.SchemaField, n int) ([]Record, error) {
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := g.Synthesize(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
