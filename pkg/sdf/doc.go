// Package sdf implements signed distance operators, primitives and the
// sphere tracer used to verify compiled scenes on the CPU.
//
// Operators are generic over Distance so the same formula serves a bare
// float (Scalar) and a distance carrying a material tag (Sample). The GLSL
// text emitted by package shader uses the same formulas.
package sdf
