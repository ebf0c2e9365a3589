// Package codec reads and writes typewise values as text. JSON and YAML documents are
// decoded into the shapes the comparator classifies (int64, float64, string, []any,
// *typewise.Map and friends), and single-key objects whose key starts with "$" carry the
// categories JSON cannot express on its own:
//
//	{"$undefined": true}              absent
//	{"$date": "2024-01-02T03:04:05Z"} temporal (null for an invalid date)
//	{"$binary": "AQI="}               binary, base64
//	{"$uuid": "…"}                    binary, as a uuid.UUID
//	{"$regexp": ["^a", "i"]}          pattern, source and flags
//	{"$nan": true}                    NaN
//	{"$inf": -1}                      ±Inf
//	{"$error": "message"}             fault
//	{"$function": 2}                  callable with the given arity
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/typewise/typewise"
)

var (
	// ErrUnknownFormat is returned by ParseFormat for names other than json and yaml.
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrSyntax wraps parse failures of the underlying JSON or YAML reader.
	ErrSyntax = errors.New("malformed document")

	// ErrInvalidTag is returned for a "$" tag whose payload has the wrong shape.
	ErrInvalidTag = errors.New("invalid tagged value")

	// ErrTooDeep is returned for documents nested deeper than typewise.DefaultMaxDepth.
	ErrTooDeep = errors.New("document nested too deeply")

	// ErrNotSequence is returned by DecodeValues when the document is not a list.
	ErrNotSequence = errors.New("document is not a sequence")

	// ErrUnencodable is returned by EncodeJSON for values outside every category.
	ErrUnencodable = errors.New("value cannot be encoded")
)

// Format names an input encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{JSON, YAML}
}

// ParseFormat resolves a format name, case-insensitively. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Decode converts data to UTF-8 and decodes a single document in the given format.
func Decode(format Format, data []byte) (any, error) {
	text, _, err := ToUTF8(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case JSON:
		return DecodeJSON(text)
	case YAML:
		return DecodeYAML(text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// DecodeValues decodes a document that must be a sequence and returns its elements.
func DecodeValues(format Format, data []byte) ([]any, error) {
	v, err := Decode(format, data)
	if err != nil {
		return nil, err
	}

	values, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotSequence, describe(v))
	}

	return values, nil
}

// DecodeValue decodes a single scalar or document given on a command line. Input that
// is not valid JSON is taken as a plain string.
func DecodeValue(text string) any {
	v, err := DecodeJSON([]byte(text))
	if err != nil {
		return text
	}

	return v
}

func describe(v any) string {
	if c, ok := typewise.Classify(v); ok {
		return c.String()
	}

	return fmt.Sprintf("%T", v)
}

func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}
