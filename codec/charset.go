package codec

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// ErrCharset is returned by ToUTF8 when the input encoding cannot be identified or decoded.
var ErrCharset = errors.New("unrecognized character encoding")

const charsetUTF8 = "UTF-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals

// ToUTF8 returns data as UTF-8 along with the name of the charset it was read as. Valid
// UTF-8 passes through with any byte order mark removed. Anything else is run through
// charset detection and decoded.
func ToUTF8(data []byte) ([]byte, string, error) {
	trimmed := bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(trimmed) {
		return trimmed, charsetUTF8, nil
	}

	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrCharset, err)
	}

	enc, err := lookupEncoding(res.Charset)
	if err != nil {
		return nil, res.Charset, err
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, res.Charset, fmt.Errorf("%w: %s: %w", ErrCharset, res.Charset, err)
	}

	return bytes.TrimPrefix(out, utf8BOM), res.Charset, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrCharset, name)
	}

	return enc, nil
}
