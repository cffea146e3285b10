// Package railmap composes a line diagram from a station topology.
//
// # Overview
//
// A rail map shows one line as two overlaid layers:
//
//   - the main layer, an opaque filled outline from the current station
//     onwards with an arrow cap in the direction of travel
//   - the pass layer, a faded stroke over the stretch already travelled
//
// Side branches leave the trunk at y = 0 and run parallel to it at
// multiples of the branch spacing, joined by orthogonal corners.
//
// # Pipeline
//
// [Compose] runs the stages in order:
//
//  1. [layout.Resolve] places every station from its share and depth.
//  2. [layout.Classify] marks every station before, at or after the
//     current station.
//  3. For each branch, [line.Partition] splits the branch into main and
//     pass runs, and [line.Walk] plus [line.Run.Path] turn each run into a
//     path description.
//
// The result is a [Diagram]: one main and one pass path per branch plus
// the placement of every station marker. Sinks in [sink] turn a diagram
// into SVG, JSON, PNG or PDF.
//
// # Caching
//
// Every stage is a pure function of the topology and [layout.Params].
// [Memo] keeps the last diagram keyed on a hash of both, so repeated
// renders with unchanged inputs skip the geometry.
//
// # Errors
//
// Composition fails as a whole on the first inconsistency. Errors carry
// the codes of [github.com/matzehuels/railmap/pkg/errors]:
// MISSING_COORDINATE, MISSING_STATE and INCONSISTENT_RUN point at a bug in
// the topology producer and are prefixed with the branch index.
//
// [sink]: github.com/matzehuels/railmap/pkg/render/railmap/sink
package railmap
