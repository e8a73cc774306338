// Package transport provides the channel handle sessions bind to.
//
// A Channel stands in for one transport connection. Its lifetime is
// independent of any session: the connection layer owns and frees the
// channel, while the session table only ever clears the channel's
// session slot on detach. The channel side mirrors the single-threaded
// access model of the session table.
package transport
