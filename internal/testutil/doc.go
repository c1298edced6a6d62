// Package testutil holds fixtures shared by package tests: a thread-safe log
// buffer and a harness that builds programs from registered node packs and
// runs them without going through the compiler.
package testutil
