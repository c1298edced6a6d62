// Package editorlink streams program output to a visual editor over
// socket.io. The editor listens on a namespace for output events; each
// printed line becomes one event carrying the entry that printed it and a
// per-publisher sequence number.
package editorlink
