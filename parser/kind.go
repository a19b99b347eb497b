package parser

import "iter"

// Kind identifies the parsing behavior of a [Node].
type Kind uint8

const (
	KindLiteral Kind = iota
	KindAnyChar
	KindIdentifier
	KindMap
	KindPred
	KindAndThen
	KindOrElse
	KindPair
	KindTakeAfter
	KindDropFor
	KindOneOrMore
	KindZeroOrMore
	KindLazy
	KindCustom
	kindCount
)

var kindName = [kindCount]string{
	KindLiteral:    "literal",
	KindAnyChar:    "any_char",
	KindIdentifier: "identifier",
	KindMap:        "map",
	KindPred:       "pred",
	KindAndThen:    "and_then",
	KindOrElse:     "or_else",
	KindPair:       "pair",
	KindTakeAfter:  "take_after",
	KindDropFor:    "drop_for",
	KindOneOrMore:  "one_or_more",
	KindZeroOrMore: "zero_or_more",
	KindLazy:       "lazy",
	KindCustom:     "custom",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindName[k]
	}

	return "parser"
}

// Kinds yields every defined kind in declaration order.
func Kinds() iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for k := range kindCount {
			if !yield(k) {
				return
			}
		}
	}
}

// ParseKind returns the kind named s. The names "left" and "right" are
// accepted for [KindTakeAfter] and [KindDropFor].
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "left":
		return KindTakeAfter, true
	case "right":
		return KindDropFor, true
	}

	for k, name := range kindName {
		if name == s {
			return Kind(k), true
		}
	}

	return 0, false
}
