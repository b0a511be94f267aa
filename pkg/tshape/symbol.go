package tshape

// SymbolKind classifies what a Symbol stands in for.
type SymbolKind int

const (
	// SymInt is an integer-valued symbol.
	SymInt SymbolKind = iota
	// SymFloat is a float-valued symbol.
	SymFloat
	// SymBool is a boolean-valued symbol.
	SymBool
	// SymString is a string-valued symbol.
	SymString
	// SymShape is a tensor-shape-valued symbol.
	SymShape
)

func (k SymbolKind) String() string {
	switch k {
	case SymInt:
		return "int"
	case SymFloat:
		return "float"
	case SymBool:
		return "bool"
	case SymString:
		return "string"
	case SymShape:
		return "shape"
	default:
		return "unknown"
	}
}

// SourceLocation pins a Symbol back to the Python-IR position that minted
// it, so that diagnostics and the downward JSON bundle can point back at
// user code.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// Symbol is an opaque handle minted by an IDManager. Two symbols are the
// same symbol if and only if their ids match; name and source location are
// purely presentational.
type Symbol struct {
	id     uint64
	kind   SymbolKind
	name   string
	source *SourceLocation
	rank   NumExpr // only meaningful when kind == SymShape
}

// NewSymbol mints a fresh symbol of the given kind and display name.
func NewSymbol(mgr *IDManager, kind SymbolKind, name string) Symbol {
	return Symbol{id: mgr.NextSymbolID(), kind: kind, name: name}
}

// NewShapeSymbol mints a fresh shape symbol whose rank is described by a Num
// expression (often a constant, but not necessarily — a function's output
// rank can itself be symbolic until more is known).
func NewShapeSymbol(mgr *IDManager, name string, rank NumExpr) Symbol {
	return Symbol{id: mgr.NextSymbolID(), kind: SymShape, name: name, rank: rank}
}

// ID returns the symbol's unique identifier.
func (s Symbol) ID() uint64 {
	return s.id
}

// Kind returns what this symbol stands in for.
func (s Symbol) Kind() SymbolKind {
	return s.kind
}

// Name returns the symbol's display name.
func (s Symbol) Name() string {
	return s.name
}

// Source returns the symbol's source location, or nil if it was not minted
// with one.
func (s Symbol) Source() *SourceLocation {
	return s.source
}

// WithSource returns a copy of s carrying the given source location.
func (s Symbol) WithSource(loc SourceLocation) Symbol {
	s.source = &loc
	return s
}

// Rank returns the rank expression of a shape symbol, or nil if s is not a
// shape symbol.
func (s Symbol) Rank() NumExpr {
	return s.rank
}

// Equal reports whether s and o refer to the same minted symbol.
func (s Symbol) Equal(o Symbol) bool {
	return s.id == o.id
}
