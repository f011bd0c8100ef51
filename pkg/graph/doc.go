// Package graph defines the scene graph compiled by package shader.
//
// A Scene is a tree of geometry nodes (primitives and the operators that
// combine them) plus the materials, lights and global parameters used for
// shading. Scenes are built once, validated, and then only read.
package graph
