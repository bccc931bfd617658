// Package zebra solves the p-median problem with column generation on the
// radius formulation.
//
// A column is a candidate facility together with a radius; it serves every
// customer within that radius. Solve alternates between the LP relaxation over
// a small pool of columns (the restricted master) and a pricing step that scans
// each facility's customers by distance for radii with negative reduced cost.
// When pricing finds nothing, or the iteration or time budget runs out, an
// integer program over the pool selects exactly p facilities and every
// customer is assigned to the nearest of them.
//
// LP and MIP solves go through the Solver interface. The default
// implementation is the pure Go simplex and branch-and-bound in package ilp.
package zebra
