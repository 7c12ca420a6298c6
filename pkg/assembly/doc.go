// Package assembly defines the input contract of the exporter: rigid parts
// and the joints that connect them, as extracted from a CAD assembly.
//
// # Overview
//
// An [Assembly] is a flat list of [Part] and [Joint] values. Parts are keyed
// by a stable unique name; joints reference parts by that name. A joint of
// kind [KindGrounded] pins a single part to the world instead of connecting
// two parts.
//
// Positions and lengths are in millimetres, angles in degrees, and
// orientations are unit quaternions ordered w, x, y, z. The exporter converts
// to the simulator's units.
//
// # File Formats
//
// Assemblies are read from JSON or YAML with [Import], [ReadJSON] or
// [ReadYAML]:
//
//	name: pendulum
//	parts:
//	  - name: Base
//	    shape: {type: box, size: [100, 100, 10]}
//	  - name: Arm
//	    placement: {position: [0, 0, 10]}
//	    shape: {type: cylinder, radius: 5, height: 200}
//	joints:
//	  - name: Ground
//	    kind: grounded
//	    part1: Base
//	  - name: Hinge
//	    kind: revolute
//	    part1: Base
//	    part2: Arm
//	    anchor: {position: [0, 0, 10]}
//
// [Validate] checks names and references before the assembly reaches the
// connectivity graph.
package assembly
