package sorting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sortValuesTotal counts values passed to Sort and ParallelSort.
	//
	// Labels:
	//   - result: "ordered" for values that took part in the sort, "unordered" for values
	//     with no ordering (moved last or reported as errors depending on the policy).
	sortValuesTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "typewise_sort_values_total",
		Help: "The total number of values seen by typewise sorts",
	}, []string{"result"})

	// sortTime tracks how long a sort takes, from validation to the final write-back.
	sortTime = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "typewise_sort_time_millis",
		Help:    "The time it takes to sort a batch of values, in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"mode", "has_error"})
)

func init() {
	sortValuesTotal.WithLabelValues("ordered").Add(0)
	sortValuesTotal.WithLabelValues("unordered").Add(0)
}
