package tracer_test

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
)

type referenceRay struct {
	X [4]float64 `json:"x"`
	P [4]float64 `json:"p"`
	U [4]float64 `json:"u"`
}

type referenceTrace struct {
	Name      string         `json:"name"`
	A         float64        `json:"a"`
	Mass      float64        `json:"mass"`
	Charge    float64        `json:"charge"`
	Origin    [4]float64     `json:"origin"`
	Direction [3]float64     `json:"direction"`
	Steps     int            `json:"steps"`
	Rays      []referenceRay `json:"rays"`
}

func loadReference() []referenceTrace {
	data, err := os.ReadFile(filepath.Join("testdata", "reference_traces.json"))
	Expect(err).NotTo(HaveOccurred())

	var ref struct {
		Traces []referenceTrace `json:"traces"`
	}
	Expect(json.Unmarshal(data, &ref)).To(Succeed())
	Expect(ref.Traces).NotTo(BeEmpty())
	return ref.Traces
}

func expectClose(got geom.Vec4, want [4]float64, what string, step int) {
	for i := range want {
		tol := 1e-6 * math.Max(1, math.Abs(want[i]))
		Expect(got[i]).To(BeNumerically("~", want[i], tol), "%s[%d] at step %d", what, i, step)
	}
}

type recorder struct {
	steps []int
}

func (r *recorder) OnRay(step int, _ tracer.Ray) {
	r.steps = append(r.steps, step)
}

var _ = Describe("Trace", func() {
	var (
		bh   *kerr.BlackHole
		opts tracer.Options
	)

	BeforeEach(func() {
		bh = kerr.Schwarzschild(1)
		opts = tracer.DefaultOptions()
	})

	Context("radial ray into a Schwarzschild hole", func() {
		var rays []tracer.Ray

		BeforeEach(func() {
			tr, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())
			rays, err = tr.Collect()
			Expect(err).NotTo(HaveOccurred())
		})

		It("yields steps+1 states", func() {
			Expect(rays).To(HaveLen(opts.Steps + 1))
		})

		It("keeps every momentum null", func() {
			for i, r := range rays {
				gi, err := bh.MetricInverse(r.X)
				Expect(err).NotTo(HaveOccurred())
				Expect(geom.Quadratic(gi, r.P)).To(BeNumerically("~", 0, 1e-9), "step %d", i)
			}
		})

		It("normalizes the initial momentum to 1 and later ones to MomentumScale", func() {
			Expect(rays[0].P.Len()).To(BeNumerically("~", 1, 1e-12))
			for _, r := range rays[1:] {
				Expect(r.P.Len()).To(BeNumerically("~", opts.MomentumScale, 1e-12))
			}
		})

		It("reports U as the raised momentum", func() {
			for _, r := range rays {
				gi, err := bh.MetricInverse(r.X)
				Expect(err).NotTo(HaveOccurred())
				Expect(gi.Mul4x1(r.P)).To(Equal(r.U))
			}
		})

		It("stays on the axis and moves backwards in time", func() {
			for _, r := range rays {
				Expect(r.X[1]).To(BeZero())
				Expect(r.X[2]).To(BeZero())
			}
			Expect(rays[len(rays)-1].X[0]).To(BeNumerically("<", 0))
		})

		It("falls monotonically towards the horizon", func() {
			for i := 1; i < len(rays); i++ {
				Expect(rays[i].Radius()).To(BeNumerically("<", rays[i-1].Radius()), "step %d", i)
			}
			horizon, err := bh.Horizon()
			Expect(err).NotTo(HaveOccurred())
			last := rays[len(rays)-1].Radius()
			Expect(last).To(BeNumerically(">", horizon))
			Expect(last).To(BeNumerically("<", horizon+0.05))
		})
	})

	Describe("regression against stored trajectories", func() {
		It("reproduces every reference trace", func() {
			for _, ref := range loadReference() {
				bh := kerr.New(ref.A, ref.Mass, ref.Charge)
				o := tracer.DefaultOptions()
				o.Steps = ref.Steps

				tr, err := tracer.FromDirection(bh, geom.Vec4(ref.Origin), geom.Vec3(ref.Direction), o)
				Expect(err).NotTo(HaveOccurred(), ref.Name)
				rays, err := tr.Collect()
				Expect(err).NotTo(HaveOccurred(), ref.Name)
				Expect(rays).To(HaveLen(len(ref.Rays)), ref.Name)

				for i, want := range ref.Rays {
					expectClose(rays[i].X, want.X, ref.Name+" x", i)
					expectClose(rays[i].P, want.P, ref.Name+" p", i)
					expectClose(rays[i].U, want.U, ref.Name+" u", i)
				}
			}
		})
	})

	Describe("cursor behaviour", func() {
		It("produces independent, identical sequences for identical inputs", func() {
			a, err := tracer.FromDirection(bh, geom.Vec4{0, 1, 0, 12}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())
			b, err := tracer.FromDirection(bh, geom.Vec4{0, 1, 0, 12}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())

			ra, errA := a.Collect()
			rb, errB := b.Collect()
			Expect(errA).NotTo(HaveOccurred())
			Expect(errB).NotTo(HaveOccurred())
			Expect(ra).To(Equal(rb))
		})

		It("is not restartable", func() {
			tr, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())
			_, err = tr.Collect()
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Next()).To(BeFalse())
			Expect(tr.Step()).To(Equal(opts.Steps))
		})

		It("stops pulling when the consumer breaks out", func() {
			tr, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())

			seen := 0
			for step := range tr.Rays() {
				seen++
				if step == 3 {
					break
				}
			}
			Expect(seen).To(Equal(4))
			Expect(tr.Step()).To(Equal(3))
			Expect(tr.StepSize()).To(BeNumerically(">", 0))
		})

		It("notifies observers of every ray", func() {
			rec := &recorder{}
			opts.Observers = []tracer.Observer{rec}
			opts.Steps = 5
			tr, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())
			_, err = tr.Collect()
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.steps).To(Equal([]int{0, 1, 2, 3, 4, 5}))
		})

		It("does not see parameter changes made after construction", func() {
			tr, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(bh.SetParam("mass", 0.5)).To(Succeed())
			got, err := tr.Collect()
			Expect(err).NotTo(HaveOccurred())

			ref := loadReference()[0]
			Expect(ref.Name).To(Equal("schwarzschild_radial"))
			expectClose(got[len(got)-1].X, ref.Rays[len(ref.Rays)-1].X, "x", len(got)-1)
		})

		It("accepts an explicit momentum", func() {
			x0 := geom.Vec4{0, 0, 0, 15}
			g, err := bh.Metric(x0)
			Expect(err).NotTo(HaveOccurred())

			a, err := tracer.New(bh, x0, g.Mul4x1(geom.Vec4{-1, 0, 0, -1}), opts)
			Expect(err).NotTo(HaveOccurred())
			b, err := tracer.FromDirection(bh, x0, geom.Vec3{0, 0, -1}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Next()).To(BeTrue())
			Expect(b.Next()).To(BeTrue())
			Expect(a.Ray()).To(Equal(b.Ray()))
		})
	})

	Describe("random Kerr-Newman rays", func() {
		It("keep every momentum null and non-zero", func() {
			rng := rand.New(rand.NewPCG(7, 11))
			opts.EscapeRadius = 100
			checked := 0

			for i := 0; i < 100; i++ {
				m := 0.5 + rng.Float64()
				a := 0.9 * m * rng.Float64()
				q := math.Sqrt(m*m-a*a) * 0.9 * rng.Float64()
				hole := kerr.New(a, m, q)

				var pos geom.Vec3
				for pos.Len() < 0.1 {
					pos = geom.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
				}
				pos = pos.Normalize().Mul(m * (4 + 16*rng.Float64()))
				dir := pos.Mul(-1).Add(geom.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Mul(m))

				tr, err := tracer.FromDirection(hole, geom.WithTime(0, pos), dir, opts)
				if err != nil {
					continue
				}
				rays, _ := tr.Collect()
				for step, r := range rays {
					gi, err := hole.MetricInverse(r.X)
					Expect(err).NotTo(HaveOccurred())
					norm := r.P.Dot(r.P)
					Expect(norm).To(BeNumerically(">", 0), "trace %d step %d", i, step)
					Expect(math.Abs(geom.Quadratic(gi, r.P)) / norm).To(BeNumerically("<", 1e-12), "trace %d step %d", i, step)
					checked++
				}
			}
			Expect(checked).To(BeNumerically(">", 100))
		})
	})

	Describe("escaping rays", func() {
		origin := geom.Vec4{0, 3, 0, 15}
		dir := geom.Vec3{0, 0, -1}

		BeforeEach(func() {
			bh = kerr.New(0.6, 1, 0.3)
		})

		It("fail with a typed error once the step size runs away", func() {
			tr, err := tracer.FromDirection(bh, origin, dir, opts)
			Expect(err).NotTo(HaveOccurred())
			rays, err := tr.Collect()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, kerr.ErrInvalidState) || errors.Is(err, kerr.ErrDomain)).To(BeTrue(), err.Error())

			var te *kerr.TraceError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Step).To(BeNumerically(">", 10))
			Expect(rays).To(HaveLen(te.Step))
		})

		It("end cleanly with an escape radius", func() {
			opts.EscapeRadius = 50
			tr, err := tracer.FromDirection(bh, origin, dir, opts)
			Expect(err).NotTo(HaveOccurred())
			rays, err := tr.Collect()
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Escaped()).To(BeTrue())
			Expect(len(rays)).To(BeNumerically("<", opts.Steps+1))
			Expect(rays[len(rays)-1].Radius()).To(BeNumerically(">", 50))
		})
	})

	Describe("configuration errors", func() {
		It("rejects a non-positive step budget", func() {
			opts.Steps = 0
			_, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).To(MatchError(kerr.ErrInvalidSteps))
		})

		It("rejects a super-extremal hole", func() {
			_, err := tracer.FromDirection(kerr.New(0.9, 1, 0.9), geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).To(MatchError(kerr.ErrParameterBounds))
		})

		It("rejects a zero direction", func() {
			_, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{}, opts)
			Expect(err).To(HaveOccurred())
		})

		It("rejects an origin on the singularity", func() {
			_, err := tracer.FromDirection(bh, geom.Vec4{}, geom.Vec3{0, 0, -1}, opts)
			Expect(err).To(MatchError(kerr.ErrSingularity))
		})

		It("rejects a momentum without spatial part", func() {
			_, err := tracer.New(kerr.New(0.6, 1, 0.3), geom.Vec4{0, 3, 4, 10}, geom.Vec4{1, 0, 0, 0}, opts)
			Expect(err).To(MatchError(kerr.ErrInvalidState))

			var te *kerr.TraceError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Step).To(Equal(0))
		})

		It("rejects a direction that lowers to a purely temporal momentum", func() {
			// at z = 15, f = 2/15 and g·(−1, 0, 0, d) has no spatial part for d = f/(1+f)
			_, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, 2.0 / 17}, opts)
			Expect(err).To(MatchError(kerr.ErrInvalidState))
		})
	})
})
