// Package stboundary models obstacle-induced regions in the station-time
// (ST) plane.
//
// Each Boundary carries a type tag that decides how the speed optimizer
// aggregates it: blocking types (stop, follow, yield) cap how far the
// vehicle may travel by a given time, every other type sets a minimum
// progress. Only follow boundaries use the characteristic length, the
// safety gap kept behind a lead vehicle.
//
// Key types: Boundary, BoundaryType, Point.
package stboundary
