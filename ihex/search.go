package ihex

import (
	"bytes"
	"regexp"
)

// QueryKind selects how a search pattern is interpreted.
type QueryKind int

const (
	// QueryBytes matches a literal byte sequence.
	QueryBytes QueryKind = iota
	// QueryText matches the raw bytes of a literal string.
	QueryText
	// QueryRegex matches a regular expression over block bytes.
	QueryRegex
)

// Query describes one search over an image's mapped bytes.
type Query struct {
	Kind    QueryKind
	Pattern []byte // literal for QueryBytes and QueryText
	Expr    string // expression source for QueryRegex
}

// BytesQuery builds a literal byte-sequence query.
func BytesQuery(pattern []byte) Query {
	return Query{Kind: QueryBytes, Pattern: pattern}
}

// TextQuery builds a literal query over the raw bytes of s.
func TextQuery(s string) Query {
	return Query{Kind: QueryText, Pattern: []byte(s)}
}

// RegexQuery builds a regular expression query.
func RegexQuery(expr string) Query {
	return Query{Kind: QueryRegex, Expr: expr}
}

// Search returns the start address of every match in ascending order.
// Matching runs per block, so a pattern spanning the gap between two blocks
// never matches; the gap bytes do not exist to compare against. Literal
// matches may overlap. An empty literal pattern yields no matches, and an
// invalid regular expression yields zero matches rather than failing the
// search.
func (im *Image) Search(q Query) []uint32 {
	if q.Kind == QueryRegex {
		return im.searchRegex(q.Expr)
	}
	return im.searchLiteral(q.Pattern)
}

// SearchBytes finds every occurrence of a literal byte sequence.
func (im *Image) SearchBytes(pattern []byte) []uint32 {
	return im.searchLiteral(pattern)
}

// SearchText finds every occurrence of the raw bytes of s.
func (im *Image) SearchText(s string) []uint32 {
	return im.searchLiteral([]byte(s))
}

// SearchRegex finds every match of a regular expression. The expression is
// compiled once per call.
func (im *Image) SearchRegex(expr string) []uint32 {
	return im.searchRegex(expr)
}

func (im *Image) searchLiteral(pattern []byte) []uint32 {
	if len(pattern) == 0 {
		return nil
	}
	var hits []uint32
	for _, b := range im.blocks {
		from := 0
		for from+len(pattern) <= len(b.Data) {
			i := bytes.Index(b.Data[from:], pattern)
			if i < 0 {
				break
			}
			hits = append(hits, b.Addr+uint32(from+i))
			from += i + 1
		}
	}
	return hits
}

func (im *Image) searchRegex(expr string) []uint32 {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	var hits []uint32
	for _, b := range im.blocks {
		for _, loc := range re.FindAllIndex(b.Data, -1) {
			hits = append(hits, b.Addr+uint32(loc[0]))
		}
	}
	return hits
}
