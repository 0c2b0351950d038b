// Package advection steps the linear advection equation u_t + c u_x = 0 on
// uniform grids.
//
// The one-dimensional solvers work on a periodic grid: the left neighbour of
// the first point is the last point. Two schemes are provided, explicit
// first-order upwind (stable for 0 <= ν <= 1) and implicit centered, whose
// circulant operator is factored once and reused for every step.
//
// The two-dimensional Eulerian solver applies upwind differencing in x and y
// independently, choosing the neighbour from the sign of the local velocity,
// and leaves the edge rows and columns unchanged.
//
// None of the solvers reject an unstable Courant number; exceeding the bound
// produces growing oscillations in the output.
package advection
