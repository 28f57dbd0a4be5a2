package metrics

import (
	"math"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
)

// NullDrift tracks max |pᵀg⁻¹p| / |p|² over a trace, the violation of the
// null constraint relative to the momentum scale.
type NullDrift struct {
	name   string
	bh     kerr.BlackHole
	maxErr float64
	failed int
}

func NewNullDrift(bh *kerr.BlackHole) *NullDrift {
	return &NullDrift{name: "null_drift", bh: *bh}
}

func (n *NullDrift) Name() string { return n.name }

func (n *NullDrift) OnRay(step int, r tracer.Ray) {
	gi, err := n.bh.MetricInverse(r.X)
	if err != nil {
		n.failed++
		return
	}
	norm := r.P.Dot(r.P)
	if norm == 0 {
		return
	}
	n.maxErr = math.Max(n.maxErr, math.Abs(geom.Quadratic(gi, r.P))/norm)
}

func (n *NullDrift) Value() float64 {
	if n.failed > 0 {
		return math.Inf(1)
	}
	return n.maxErr
}

func (n *NullDrift) Reset() {
	n.maxErr = 0
	n.failed = 0
}
