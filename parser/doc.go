// Package parser implements a parser-combinator engine whose parsers form a
// reference-counted graph and whose results live in an external value store.
//
// # Nodes
//
// A [Node] is one parser: a primitive ([Runtime.Literal], [Runtime.AnyChar],
// [Runtime.Identifier]) or a combinator over other nodes and host callbacks.
// Every constructor returns a node holding one reference owned by the caller
// and takes its own reference on each child, so a node may be shared by any
// number of parents. When the last reference is dropped with [Node.Unref],
// the node releases the callback handles it owns and drops its references to
// its children.
//
// Nodes must form a DAG. Self-referential grammars are expressed with
// [Runtime.Lazy], which resolves its target at parse time and never stores a
// reference to it.
//
// # Values
//
// Parsing a node yields a [Result] whose value is a [store.Handle]. Each
// handle has a single owner. A combinator either forwards the handles it
// receives from its children, consumes them into a new composite value, or
// releases them. After a top-level parse the only live handle created by it
// is the one in the returned result.
//
// # Host wrappers
//
// Host code holds nodes through a [Parser] wrapper. The wrapper owns one
// reference, which is dropped when the wrapper is closed or collected by the
// garbage collector. Collection only queues the node. The queue is drained on
// the goroutine that owns the [Runtime] whenever a parse starts, a wrapper is
// created, or [Runtime.Collect] is called.
//
// # Limits
//
// Parsing recurses on the goroutine stack. Deeply nested and_then and lazy
// chains recurse once per level; [WithMaxDepth] bounds the nesting and turns
// excess depth into an ordinary parse failure. Repetitions iterate and do
// not grow the stack.
//
// A host closure stored as a callback that captures a wrapper reachable
// through the same callback keeps both alive for the life of the value
// store. Such cycles are not collected.
package parser
