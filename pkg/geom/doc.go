// Package geom holds the point, bounds and polyline types shared by the
// meshing packages, together with arc-length subdivision of curves.
package geom
