// Package mjcf builds MuJoCo (MJCF) model documents from an oriented
// kinematic tree.
//
// # Overview
//
// A [Builder] turns the output of [transform.Orient] and the loop edges of
// [transform.SpanningTree] into a [Document]:
//
//   - one mesh and one material per part, materials shared by appearance name
//   - a floor plane just below the lowest part
//   - a body hierarchy nested under the world body, rooted at the tree root
//   - one joint, position actuator and position sensor per movable edge
//   - one weld equality constraint per rigid loop edge
//
// The document is assembled from values built bottom-up, so no element is
// shared between two places in the output.
//
// # Joint Mapping
//
// Joint kinds map to MJCF joint types through a fixed table:
//
//	revolute    → hinge
//	prismatic   → slide
//	cylindrical → hinge
//	ball        → ball
//	planar      → free
//
// Fixed and unrecognized kinds emit no joint; the child body moves rigidly
// with its parent. Joint axes are only defined for revolute joints (the
// anchor's Z axis). Any other mapped kind fails with an UNSUPPORTED error
// rather than guessing an axis.
//
// # Loops
//
// Loop edges become welds when they are rigid. Closing a loop through a
// movable joint is not supported and fails with an UNSUPPORTED error.
//
// [transform.Orient]: github.com/matzehuels/kinetree/pkg/graph/transform.Orient
// [transform.SpanningTree]: github.com/matzehuels/kinetree/pkg/graph/transform.SpanningTree
package mjcf
