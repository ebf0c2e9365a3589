package typewise

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"facette.io/natsort"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Collation selects how textual values are ordered.
type Collation string

const (
	// CodeUnits orders strings by UTF-16 code units, the ordering of JavaScript strings.
	// This is the default.
	CodeUnits Collation = "code-units"

	// Bytes orders strings by their UTF-8 bytes (Go's native string ordering).
	Bytes Collation = "bytes"

	// Natural orders embedded digit runs numerically ("file2" < "file10").
	Natural Collation = "natural"

	// NFC normalizes both strings to Unicode NFC before comparing code units, so
	// canonically equivalent strings compare equal.
	NFC Collation = "nfc"

	// Locale uses the Unicode collation algorithm tailored to Options.Locale.
	Locale Collation = "locale"
)

// Collations lists every supported collation.
func Collations() []Collation {
	return []Collation{CodeUnits, Bytes, Natural, NFC, Locale}
}

type collateFunc func(a, b string) int

func newCollateFunc(c Collation, locale string) (collateFunc, error) {
	switch c {
	case "", CodeUnits:
		return compareCodeUnits, nil
	case Bytes:
		return strings.Compare, nil
	case Natural:
		return compareNatural, nil
	case NFC:
		return func(a, b string) int {
			return compareCodeUnits(norm.NFC.String(a), norm.NFC.String(b))
		}, nil
	case Locale:
		return newLocaleCollateFunc(locale)
	default:
		return nil, fmt.Errorf("%w: collation %q", ErrUnsupported, string(c))
	}
}

func compareNatural(a, b string) int {
	switch {
	case a == b:
		return 0
	case natsort.Compare(a, b):
		return -1
	case natsort.Compare(b, a):
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// newLocaleCollateFunc returns a collation backed by a pool of collators.
// A *collate.Collator keeps scratch buffers and is not safe for concurrent use.
func newLocaleCollateFunc(locale string) (collateFunc, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %w", ErrUnsupported, locale, err)
	}

	pool := &sync.Pool{
		New: func() any {
			return collate.New(tag)
		},
	}

	return func(a, b string) int {
		col, _ := pool.Get().(*collate.Collator)
		defer pool.Put(col)

		return col.CompareString(a, b)
	}, nil
}

// compareCodeUnits compares strings by UTF-16 code units without allocating.
// Code point order and code unit order only disagree when a supplementary character
// (encoded as a surrogate pair) meets a BMP character at or above U+E000.
func compareCodeUnits(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)

		if ra == utf8.RuneError && na == 1 || rb == utf8.RuneError && nb == 1 {
			// invalid UTF-8 on either side: fall back to raw bytes
			return strings.Compare(a, b)
		}

		if ra != rb {
			ua, ub := leadUnit(ra), leadUnit(rb)
			if ua != ub {
				return compareUnits(ua, ub)
			}

			return compareUnits(trailUnit(ra), trailUnit(rb))
		}

		a, b = a[na:], b[nb:]
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

const (
	surrogateBase = 0x10000
	highSurrogate = 0xD800
	lowSurrogate  = 0xDC00
	surrogateBits = 10
	surrogateMask = 0x3FF
)

func leadUnit(r rune) rune {
	if r < surrogateBase {
		return r
	}

	return highSurrogate + (r-surrogateBase)>>surrogateBits
}

func trailUnit(r rune) rune {
	if r < surrogateBase {
		return 0
	}

	return lowSurrogate + (r-surrogateBase)&surrogateMask
}

func compareUnits(a, b rune) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
