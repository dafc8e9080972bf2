// Package graph defines the dependency graph of a block-structured mesh.
// Nodes are edges, faces and blocks addressed by symbolic ids; each node
// carries the recipe that builds it from its inputs. The graph is
// declared once per mesh topology and resolved by package build.
package graph
