// Package descriptor provides the file-based knot descriptor store.
//
// The descriptor lives at <workdir>/knot.json. Writes go through a
// temporary file and a rename, and every load-modify-save cycle holds a
// mutex shared by all stores opened on the same path.
package descriptor
