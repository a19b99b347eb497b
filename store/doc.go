// Package store holds the values produced while parsing.
//
// Parsers never pass Go values between each other directly. Every value
// lives in a [Store] and is referred to by an opaque [Handle] with exactly
// one owner. An owner either forwards its handle unchanged, consumes it to
// build a new value and then releases it, or releases it outright. Callback
// functions supplied by the host are stored the same way and invoked through
// [Store.Call].
//
// [Registry] is the reference implementation. [Counter] decorates any Store
// and tracks acquisitions and releases so tests can assert that a parse
// leaked nothing.
package store
