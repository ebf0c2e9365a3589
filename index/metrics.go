package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operationsTotal counts index operations.
//
// Labels:
//   - index: the name given with WithName ("default" otherwise).
//   - op: put, get, delete, range, floor or ceiling (the last two only as rejected).
//   - result: "ok", "miss" when the key is absent, "rejected" when the key has no ordering.
var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "typewise_index_operations_total",
	Help: "The total number of operations on typewise indexes",
}, []string{"index", "op", "result"})
