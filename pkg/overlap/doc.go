// Package overlap detects blocks whose footprints intersect.
//
// Three detectors share one [Result] shape:
//
//   - [Grid] expands every rectangle into integer unit cells and records the
//     owners of each cell. Any cell with more than one owner marks all of its
//     owners as overlapping. The cost is proportional to the total block area,
//     so a cell budget guards against huge inputs. Coordinates are truncated
//     to the integer grid, which is exact for the integer outputs of the
//     floorplanner.
//   - [Sweep] sorts rectangles by their left edge and sweeps an active set,
//     costing O(n log n + k) for k reported pairs.
//   - [Quadtree] indexes rectangle centers in a quadtree and only tests
//     rectangles whose centers fall in each other's reach.
//
// Rectangles that merely touch along an edge or a corner do not overlap.
//
//	res, err := overlap.Detect(items, overlap.Options{Method: overlap.MethodSweep})
//	for _, p := range res.Pairs {
//	    fmt.Println(p.A, p.B, p.Overlap.Area())
//	}
package overlap
