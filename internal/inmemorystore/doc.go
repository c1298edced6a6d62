// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. It is the store every program uses
// unless a caller supplies its own.
package inmemorystore
