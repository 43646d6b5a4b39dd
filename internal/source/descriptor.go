package source

import (
	apperrors "github.com/marquee-led/marquee/internal/errors"
	"github.com/marquee-led/marquee/internal/parser"
)

// Descriptor is the single configuration surface for data sources. The three
// accepted shapes map onto the three source variants:
//
//   - Text set          -> Static
//   - Producer set      -> Callable
//   - URL set           -> HTTP (Parser names a registered parser)
//
// Convenience layers normalize shorthand inputs into this struct before
// calling New.
type Descriptor struct {
	Text          string
	Producer      Producer
	URL           string
	Parser        string
	ParserOptions parser.Options
	Headers       map[string]string
}

// New constructs a source from a descriptor. Invalid descriptors surface a
// configuration error at construction rather than failing inside the loop.
func New(d Descriptor, registry *parser.Registry) (Source, error) {
	switch {
	case d.Producer != nil:
		return NewCallable(d.Producer), nil

	case d.URL != "":
		id := d.Parser
		if id == "" {
			id = "text"
		}
		parse, err := registry.Resolve(id)
		if err != nil {
			return nil, apperrors.ConfigError("source descriptor names an unregistered parser").
				WithContext("parser", id).
				WithContext("url", d.URL)
		}
		return NewHTTP(d.URL, d.Headers, parse, d.ParserOptions), nil

	case d.Parser != "":
		// a parser without a url is a half-built networked descriptor
		return nil, apperrors.ConfigError("source descriptor requires a url").
			WithContext("parser", d.Parser)

	case d.Text != "":
		return NewStatic(d.Text), nil

	default:
		return nil, apperrors.ConfigError("source descriptor must provide text, a producer, or a url")
	}
}
