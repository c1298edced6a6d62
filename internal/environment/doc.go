// Package environment describes the host a visual program is written for:
// which node types and data types an editor may offer, which entry points
// the host will call and which variables the host owns.
//
// An Environment is immutable once built. It is assembled with a Builder
// whose four stages (nodes, entries, data types, locked variables) may each
// be configured at most once; stages that are never configured keep their
// defaults.
package environment
