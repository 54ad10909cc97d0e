// Package filesystem provides the material catalog and material writer
// backed by the local filesystem.
//
// A material root is expected to look like:
//
//	<root>/<group>/<name>.mtl     material referencing a diffuse map
//	<root>/<group>/<name>.jpg     diffuse (uv) texture
//	<root>/dpmap/<name>.png       displacement map
package filesystem
