// Package grammar loads parser grammars from YAML documents.
//
// A document names a start rule, a list of files to include, and the rules
// themselves:
//
//	start: list
//	include: [common.yaml]
//	rules:
//	  item:
//	    or_else:
//	      - identifier
//	      - literal: "*"
//	  list:
//	    pair:
//	      - ref: item
//	      - zero_or_more:
//	          drop_for: [{literal: ","}, {ref: item}]
//
// Each node is a mapping with a single key naming its form, or one of the
// bare strings any_char and identifier. Callback forms (map, pred, and_then,
// lazy and custom) take expr sources, compiled by a [host.Host].
//
// References between rules are resolved lazily at parse time, so rules may
// refer to themselves. Every reference must name a known rule when the
// grammar is loaded.
package grammar
