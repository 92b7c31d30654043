package blueprint

// Assembler merges per-file discovery results into one ordered Blueprint.
// Files must be added in enumeration order; classes within a file must be
// added in match order. No deduplication is performed — duplicate class
// names across files or namespaces are legal and kept as distinct entries.
type Assembler struct {
	classes []DiscoveredClass
}

// NewAssembler creates an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{classes: []DiscoveredClass{}}
}

// Add appends one file's classes in their match order.
func (a *Assembler) Add(classes []DiscoveredClass) {
	a.classes = append(a.classes, classes...)
}

// Len reports how many classes have been added so far.
func (a *Assembler) Len() int {
	return len(a.classes)
}

// Assemble finalizes the blueprint: normalizes collection element types on
// every property and returns the ordered class list. The assembler must not
// be reused afterwards.
func (a *Assembler) Assemble() Blueprint {
	for i := range a.classes {
		props := a.classes[i].Properties
		for j := range props {
			if props[j].CollectionElementType != "" {
				continue
			}
			if elem, ok := CollectionElement(props[j].Type); ok {
				props[j].CollectionElementType = elem
			}
		}
	}
	return Blueprint(a.classes)
}
