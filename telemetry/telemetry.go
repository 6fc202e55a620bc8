// Package telemetry collects hierarchical timings for the stages of a
// round trip: loading, tokenizing, parsing, building and formatting.
//
// Collectors travel through a context, so instrumented code never takes a
// collector argument. Without one in the context every call is a no-op.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.FromContext(ctx).Start("loader.load")
//	defer timer.End()
//
//	parse := timer.Child("parser.parse profiles.fsh")
//	// ... work ...
//	parse.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/robinvdvleuten/shorthand/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector receives timings.
type Collector interface {
	// Start begins timing an operation. Operations started while another
	// one is running are nested under it.
	Start(name string) Timer

	// Report writes the collected timings to w. Styles may be nil for
	// plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation.
type Timer interface {
	// End stops the timer. Calling End twice keeps the first end time.
	End()

	// Child creates a timer nested under this one.
	Child(name string) Timer
}

// Timing is one finished operation, flattened out of the timing tree.
type Timing struct {
	Name     string
	Depth    int
	Duration time.Duration
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the collector of ctx, or a collector that does
// nothing when there is none.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}
