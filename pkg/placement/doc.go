// Package placement reads Bookshelf-style global placement results: a .nodes
// file with cell dimensions and a .pl file with cell locations.
//
//	UCLA nodes 1.0
//	NumNodes : 3
//	NumTerminals : 1
//	o0 10 12
//	o1 10 12
//	p0 1 1 terminal
//
//	UCLA pl 1.0
//	o0 0 0 : N
//	o1 10 0 : N
//	p0 -5 40 : N /FIXED
package placement
