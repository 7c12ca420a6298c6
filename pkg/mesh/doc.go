// Package mesh produces the mesh files a model document references.
//
// A [Generator] names the mesh file of a part and produces its contents.
// [SDFGenerator] tessellates primitive shapes (box, cylinder, sphere) with
// sdfx marching cubes and encodes them as binary STL. Parts with a mesh
// shape reference an existing file, which is used as is.
//
// Meshes are expressed in assembly coordinates: the part placement is
// applied to the geometry, because bodies in the exported hierarchy sit at
// the identity pose.
package mesh
