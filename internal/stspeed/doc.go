// Package stspeed plans the longitudinal motion of the vehicle along an
// already chosen path.
//
// A planning cycle turns the vehicle's current speed and acceleration, the
// speed limit along the path and the obstacle regions in the
// station-versus-time (ST) plane into a smooth station profile s(t) over a
// fixed horizon. The profile is a piecewise polynomial spline whose
// coefficients come from a convex quadratic program:
//
//   - hard constraints pin the initial state, keep s(t) non-decreasing,
//     make the spline smooth up to its third derivative, hold s(t) inside the
//     obstacle-free distance window and s'(t) under the speed ceiling;
//   - the cost penalises speed, acceleration and jerk, pulls the profile
//     toward a cruise reference and toward a safe following distance
//     behind FOLLOW obstacles.
//
// The optimiser itself lives behind the SplineGenerator interface; the
// default implementation is the ADMM solver in internal/qp driven through
// internal/spline. Each Search call owns its grids and generator, so a
// Planner may be shared between goroutines.
package stspeed
