package kerr

import (
	"math"
	"math/rand"

	"github.com/san-kum/kerrsim/internal/geom"
)

type sample struct {
	bh *BlackHole
	x  geom.Vec4
	p  geom.Vec4
}

// randomSample draws a sub-extremal hole and a point between 3m and 20m from
// the center, well outside the horizon and away from the ring.
func randomSample(rng *rand.Rand) sample {
	m := 0.5 + rng.Float64()
	a := 0.9 * m * rng.Float64()
	q := math.Sqrt(m*m-a*a) * 0.9 * rng.Float64()

	radius := m * (3 + 17*rng.Float64())
	var dir geom.Vec3
	for dir.Len() < 0.1 {
		dir = geom.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}
	dir = dir.Normalize().Mul(radius)

	return sample{
		bh: New(a, m, q),
		x:  geom.WithTime(10*rng.Float64()-5, dir),
		p:  geom.Vec4{2*rng.Float64() - 1, 2*rng.Float64() - 1, 2*rng.Float64() - 1, 2*rng.Float64() - 1},
	}
}
