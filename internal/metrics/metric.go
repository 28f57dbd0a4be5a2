package metrics

import (
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
)

// Metric accumulates a scalar over the rays of one trace. Every Metric is
// also a tracer.Observer, so it can be passed in tracer.Options.Observers.
type Metric interface {
	Name() string
	OnRay(step int, r tracer.Ray)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every stored run.
func Defaults(bh *kerr.BlackHole) []Metric {
	return []Metric{
		NewNullDrift(bh),
		NewMinRadius(),
		NewFinalRadius(),
		NewCoordinateTime(),
		NewDeflection(),
	}
}

func Observers(ms []Metric) []tracer.Observer {
	obs := make([]tracer.Observer, len(ms))
	for i, m := range ms {
		obs[i] = m
	}
	return obs
}

// Summarize returns the current value of each metric keyed by name.
func Summarize(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Replay feeds already collected rays to the metrics after resetting them.
func Replay(ms []Metric, rays []tracer.Ray) {
	for _, m := range ms {
		m.Reset()
	}
	for i, r := range rays {
		for _, m := range ms {
			m.OnRay(i, r)
		}
	}
}
