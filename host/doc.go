// Package host embeds the parser engine in an expression runtime.
//
// Callbacks are expr programs (see github.com/expr-lang/expr). A program
// sees its first argument as v and every argument as args, together with
// constructors for parsers:
//
//	literal(s)    matches s
//	any_char()    matches one code point
//	identifier()  matches an identifier
//	rule(name)    the parser bound to a grammar rule
//
// Constructors return [parser.Parser] wrappers, so programs can combine
// them with method calls such as literal("a").OneOrMore(). The builtins
// concat and str flatten parse values into text.
package host
