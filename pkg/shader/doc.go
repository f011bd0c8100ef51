// Package shader compiles a graph.Scene into a GLSL ES 3.00 raymarching
// fragment shader.
//
// Assemble walks the scene's operator tree and produces the per-primitive
// distance functions, the scene expression, the material table and the
// lighting dispatcher. Template merges those fragments into a fixed program
// skeleton. The same input always yields byte-identical source.
package shader
