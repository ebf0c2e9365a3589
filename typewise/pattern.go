package typewise

import (
	"fmt"
	"regexp"
	"strings"
)

// patternFlags are the single-letter flags Go's regexp syntax accepts in a leading
// (?flags) group.
const patternFlags = "imsU"

// SerializePattern splits p into its source text and flags. A leading (?flags) group made
// only of pattern flags is lifted out; everything else stays in the source.
// ParsePattern(SerializePattern(p)) reproduces p.String() exactly.
func SerializePattern(p *regexp.Regexp) (source, flags string) {
	s := p.String()

	if strings.HasPrefix(s, "(?") {
		end := strings.IndexByte(s, ')')
		if end > 2 && validFlags(s[2:end]) == nil {
			return s[end+1:], s[2:end]
		}
	}

	return s, ""
}

// ParsePattern compiles a pattern from the parts produced by SerializePattern.
func ParsePattern(source, flags string) (*regexp.Regexp, error) {
	if err := validFlags(flags); err != nil {
		return nil, err
	}

	expr := source
	if flags != "" {
		expr = "(?" + flags + ")" + source
	}

	p, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return p, nil
}

func validFlags(flags string) error {
	seen := make(map[rune]bool, len(flags))

	for _, f := range flags {
		if !strings.ContainsRune(patternFlags, f) {
			return fmt.Errorf("%w: unknown flag %q", ErrInvalidPattern, f)
		}

		if seen[f] {
			return fmt.Errorf("%w: duplicate flag %q", ErrInvalidPattern, f)
		}

		seen[f] = true
	}

	return nil
}

func serializePattern(v any) ([]string, error) {
	p, ok := Unbox(v).(*regexp.Regexp)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a pattern", ErrUnsupported, v)
	}

	source, flags := SerializePattern(p)

	return []string{source, flags}, nil
}

func parsePattern(parts []string) (any, error) {
	switch len(parts) {
	case 1:
		return ParsePattern(parts[0], "")
	case 2: //nolint:mnd
		return ParsePattern(parts[0], parts[1])
	default:
		return nil, fmt.Errorf("%w: expected source and flags, got %d parts", ErrInvalidPattern, len(parts))
	}
}
