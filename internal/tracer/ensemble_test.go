package tracer_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"github.com/san-kum/kerrsim/internal/tracer"
)

var _ = Describe("Ensemble", func() {
	var (
		bh   *kerr.BlackHole
		opts tracer.Options
	)

	BeforeEach(func() {
		bh = kerr.New(0.6, 1, 0.3)
		opts = tracer.DefaultOptions()
	})

	Describe("FanJobs", func() {
		It("spreads impact parameters evenly", func() {
			jobs := tracer.FanJobs(geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, geom.Vec3{1, 0, 0}, 0, 4, 5)
			Expect(jobs).To(HaveLen(5))
			for i, job := range jobs {
				Expect(job.Impact).To(BeNumerically("~", float64(i), 1e-12))
				Expect(job.Origin).To(Equal(geom.Vec4{0, float64(i), 0, 15}))
				Expect(job.Direction).To(Equal(geom.Vec3{0, 0, -1}))
			}
		})

		It("handles degenerate counts", func() {
			Expect(tracer.FanJobs(geom.Vec4{}, geom.Vec3{1, 0, 0}, geom.Vec3{0, 1, 0}, 1, 2, 0)).To(BeEmpty())
			jobs := tracer.FanJobs(geom.Vec4{}, geom.Vec3{1, 0, 0}, geom.Vec3{0, 1, 0}, 1, 2, 1)
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Impact).To(Equal(1.0))
		})
	})

	It("matches sequential traces job by job", func() {
		jobs := []tracer.Job{
			{Origin: geom.Vec4{0, 1.5, 0, 15}, Direction: geom.Vec3{0, 0, -1}, Impact: 1.5},
			{Origin: geom.Vec4{0, 3, 0, 15}, Direction: geom.Vec3{0, 0, -1}, Impact: 3},
			{Origin: geom.Vec4{}, Direction: geom.Vec3{0, 0, -1}},
		}

		results, err := tracer.NewEnsemble(bh, opts, 2).Run(context.Background(), jobs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(jobs)))

		for i, res := range results {
			Expect(res.Job).To(Equal(jobs[i]))

			tr, err := tracer.FromDirection(bh, jobs[i].Origin, jobs[i].Direction, opts)
			if err != nil {
				Expect(res.Err).To(HaveOccurred())
				continue
			}
			rays, err := tr.Collect()
			Expect(res.Rays).To(Equal(rays))
			if err != nil {
				Expect(res.Err).To(MatchError(err.Error()))
			} else {
				Expect(res.Err).NotTo(HaveOccurred())
			}
		}

		Expect(results[0].Err).NotTo(HaveOccurred())
		Expect(results[1].Err).To(HaveOccurred())
		Expect(results[2].Err).To(MatchError(kerr.ErrSingularity))
	})

	It("stops on context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		jobs := tracer.FanJobs(geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, geom.Vec3{1, 0, 0}, 0, 2, 8)
		_, err := tracer.NewEnsemble(bh, opts, 0).Run(ctx, jobs)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("validates options before running", func() {
		opts.Steps = -1
		_, err := tracer.NewEnsemble(bh, opts, 1).Run(context.Background(), nil)
		Expect(err).To(MatchError(kerr.ErrInvalidSteps))
	})
})
