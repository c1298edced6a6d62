// Package compiler turns a graph.Program into callable program instances.
//
// Compilation lowers every entry's statement chain into a closure tree once.
// The result is a Factory, which is immutable and may be shared between
// goroutines. Each Instance created by the factory owns a private copy of
// the program variables and is not safe for concurrent use.
//
//	graph.Program ──Compile──▶ Factory[C] ──CreateProgram──▶ C (backed by *Instance)
//
// A compilation either produces a factory or fails with one error. The
// source program is only read, never modified.
package compiler
