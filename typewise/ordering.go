package typewise

// Ordering is the result of a comparison. Less, Equal and Greater have the usual
// -1/0/1 values; Unordered is the "no ordering" signal returned when a fault value
// is involved, and must never be treated as Equal.
type Ordering int8

const (
	Less      Ordering = -1
	Equal     Ordering = 0
	Greater   Ordering = 1
	Unordered Ordering = 2
)

// Ordered reports whether o is one of Less, Equal or Greater.
func (o Ordering) Ordered() bool {
	return o == Less || o == Equal || o == Greater
}

// Reverse flips Less and Greater. Equal and Unordered are returned unchanged.
func (o Ordering) Reverse() Ordering {
	switch o {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return o
	}
}

// Int returns o as a sort.Slice style integer. Unordered maps to 0, so callers that
// care about the distinction must check Ordered first.
func (o Ordering) Int() int {
	if !o.Ordered() {
		return 0
	}

	return int(o)
}

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	case Unordered:
		return "unordered"
	default:
		return "invalid"
	}
}

// sign converts any three-way integer result into an Ordering.
func sign(n int) Ordering {
	switch {
	case n < 0:
		return Less
	case n > 0:
		return Greater
	default:
		return Equal
	}
}
