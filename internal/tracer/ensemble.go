package tracer

import (
	"context"
	"runtime"

	"github.com/san-kum/kerrsim/internal/geom"
	"github.com/san-kum/kerrsim/internal/kerr"
	"golang.org/x/sync/errgroup"
)

// Job is one ray of an ensemble.
type Job struct {
	Origin    geom.Vec4
	Direction geom.Vec3
	// Impact is the offset the job was built with by FanJobs; informational.
	Impact float64
}

type Result struct {
	Job     Job
	Rays    []Ray
	Escaped bool
	Err     error
}

// Ensemble traces many independent rays around the same black hole. Each
// job gets its own Trace; observers in the options are not used since they
// would be shared between goroutines.
type Ensemble struct {
	bh      kerr.BlackHole
	opts    Options
	workers int
}

func NewEnsemble(bh *kerr.BlackHole, opts Options, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	opts.Observers = nil
	return &Ensemble{bh: *bh, opts: opts, workers: workers}
}

// Run traces all jobs and returns results in job order. Failures of single
// rays are reported in Result.Err; Run itself only fails on invalid options
// or context cancellation.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if err := e.opts.Validate(); err != nil {
		return nil, err
	}
	if err := e.bh.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := e.runJob(ctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) runJob(ctx context.Context, job Job) (Result, error) {
	res := Result{Job: job}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	bh := e.bh
	tr, err := FromDirection(&bh, job.Origin, job.Direction, e.opts)
	if err != nil {
		res.Err = err
		return res, nil
	}

	res.Rays = make([]Ray, 0, e.opts.Steps+1)
	for tr.Next() {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		res.Rays = append(res.Rays, tr.Ray())
	}
	res.Err = tr.Err()
	res.Escaped = tr.Escaped()
	return res, nil
}

// FanJobs builds n parallel rays looking along dir, with origins shifted
// from origin along offset by impact parameters evenly spaced in [from, to].
func FanJobs(origin geom.Vec4, dir, offset geom.Vec3, from, to float64, n int) []Job {
	if n <= 0 {
		return nil
	}
	jobs := make([]Job, n)
	for i := range jobs {
		b := from
		if n > 1 {
			b = from + (to-from)*float64(i)/float64(n-1)
		}
		shift := geom.WithTime(0, offset.Mul(b))
		jobs[i] = Job{Origin: origin.Add(shift), Direction: dir, Impact: b}
	}
	return jobs
}
