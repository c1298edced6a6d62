// Package runtime defines the executable fragments a visual program is lowered
// into and the Frame they run against.
//
// Lowering turns every node into either an Expr, which produces a cty.Value,
// or a Stmt, which performs a side effect. Fragments are plain closures: they
// hold no references to the node graph, so a compiled program keeps working
// after its source graph is edited. All mutable state lives in the Frame,
// which is supplied per call by the program instance.
package runtime
