package mock

import (
	"context"
	"errors"
	"net/http"

	"github.com/iamtinsae/mockify/internal/fake"
	"github.com/iamtinsae/mockify/internal/model"
)

// DefaultListSize is the number of records in a list response.
const DefaultListSize = 10

// NotFoundMessage is the error text of a 404 mock response.
const NotFoundMessage = "End point not found!"

// Shape is the terminal state of one mock request.
type Shape string

const (
	ShapeSingle   Shape = "single"
	ShapeList     Shape = "list"
	ShapeNotFound Shape = "not_found"
)

// ErrorBody is the JSON body of a 404 mock response.
type ErrorBody struct {
	Error string `json:"error"`
}

// ListBody is the JSON body of a list response. HasNext is always false.
type ListBody struct {
	Data    []fake.Record `json:"data"`
	HasNext bool          `json:"hasNext"`
}

// Response is a mock response ready to be written by a transport.
type Response struct {
	Status   int
	Shape    Shape
	Body     any
	Endpoint *model.Endpoint // nil when not found
}

// Synthesizer builds records from schema fields.
type Synthesizer interface {
	Synthesize(fields []model.SchemaField) (fake.Record, error)
	SynthesizeN(fields []model.SchemaField, n int) ([]fake.Record, error)
}

// Engine resolves a request and synthesizes its response. It keeps no
// state between calls.
type Engine struct {
	resolver *Resolver
	synth    Synthesizer
	listSize int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithListSize sets the number of records in list responses. Values below
// one are ignored.
func WithListSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.listSize = n
		}
	}
}

// WithSynthesizer replaces the default fake-data synthesizer.
func WithSynthesizer(s Synthesizer) EngineOption {
	return func(e *Engine) { e.synth = s }
}

// NewEngine returns an Engine that resolves endpoints through r.
func NewEngine(r *Resolver, opts ...EngineOption) *Engine {
	e := &Engine{
		resolver: r,
		synth:    fake.NewGenerator(),
		listSize: DefaultListSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListSize returns the configured list response size.
func (e *Engine) ListSize() int { return e.listSize }

// Respond resolves key and builds the response. A missing endpoint is not an
// error: it yields a 404 Response. Errors are store failures or
// *fake.UnsupportedTypeError, both of which the caller should treat as
// internal errors.
func (e *Engine) Respond(ctx context.Context, key Key) (*Response, error) {
	ep, err := e.resolver.Resolve(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return &Response{
			Status: http.StatusNotFound,
			Shape:  ShapeNotFound,
			Body:   ErrorBody{Error: NotFoundMessage},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if !ep.IsList {
		rec, err := e.synth.Synthesize(ep.Schemas)
		if err != nil {
			return nil, err
		}
		return &Response{Status: http.StatusOK, Shape: ShapeSingle, Body: rec, Endpoint: ep}, nil
	}

	recs, err := e.synth.SynthesizeN(ep.Schemas, e.listSize)
	if err != nil {
		return nil, err
	}
	return &Response{
		Status:   http.StatusOK,
		Shape:    ShapeList,
		Body:     ListBody{Data: recs, HasNext: false},
		Endpoint: ep,
	}, nil
}
