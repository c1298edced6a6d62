// internal/nodeid/doc.go

/*
Package nodeid provides the identity type for nodes in a visual program.

Every node carries a 128-bit identifier that is unique within its program.
Identifiers are generated randomly when a node is created by an editor and
are preserved verbatim when a program is reconstructed from storage, so the
canonical form is the standard hyphenated UUID text, e.g.
`1b4e28ba-2fa1-11d2-883f-0016d3cca427`.
*/
package nodeid
