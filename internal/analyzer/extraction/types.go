package extraction

// Declaration is one type definition found by a language parser.
type Declaration struct {
	Name     string   // fully qualified type name, e.g. "ns::Point" or "com.acme.Point"
	Kind     string   // "class", "struct", "union", "record", "interface"
	Language string   // language of the file the declaration came from
	File     string   // path as given to the parser
	Line     int      // 1-based line of the declaration
	Members  []Member // data members in declaration order
}

// Member is one data member of a declaration.
type Member struct {
	Type string // type description as written in source, normalized for whitespace
	Name string // fully qualified member name
}
