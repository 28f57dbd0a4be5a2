// Package tracer integrates light rays backwards in time through a Kerr-Newman
// spacetime.
//
// A [Trace] is a cursor over a finite sequence of [Ray] states. The first
// state is the initial ray; every call to [Trace.Next] after that advances
// the position and momentum by one explicit Euler step:
//
//	Δ  = StepScale·|x.yzw|²
//	p' = p − Δ ∂H/∂x(x, p)
//	x' = x + Δ g⁻¹(x) p
//
// after which p' is projected back onto the light cone at x' and rescaled to
// MomentumScale. A trace is not restartable; build a new one per run.
//
// # Example
//
//	tr, err := tracer.FromDirection(bh, geom.Vec4{0, 0, 0, 15}, geom.Vec3{0, 0, -1}, tracer.DefaultOptions())
//	for tr.Next() {
//		ray := tr.Ray()
//		...
//	}
//	if err := tr.Err(); err != nil {
//		...
//	}
//
// # Thread Safety
//
// A Trace is NOT safe for concurrent use. Independent traces may run in
// parallel; [Ensemble] does that for a batch of rays.
package tracer
