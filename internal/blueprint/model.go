package blueprint

// DiscoveredClass represents one tracked declaration extracted from source.
// Instances are assembled once per matched declaration and never mutated
// after the owning file's scan completes.
type DiscoveredClass struct {
	Name       string               `json:"name"`
	Namespace  string               `json:"namespace"`
	Properties []DiscoveredProperty `json:"properties"`
	Methods    []DiscoveredMethod   `json:"methods"`
	Metadata   map[string]string    `json:"metadata"`
}

// DiscoveredProperty represents a field or property of a tracked class.
// Type is the source-syntax type string and is never empty; engines fall
// back to their language's unknown sentinel when no type can be recovered.
type DiscoveredProperty struct {
	Name                  string `json:"name"`
	Type                  string `json:"type"`
	CollectionElementType string `json:"collectionElementType,omitempty"`
}

// DiscoveredMethod represents a method of a tracked class.
type DiscoveredMethod struct {
	Name       string                `json:"name"`
	ReturnType string                `json:"returnType"`
	Parameters []DiscoveredParameter `json:"parameters"`
}

// DiscoveredParameter represents a single method parameter.
type DiscoveredParameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Blueprint is the ordered sequence of classes produced by one discovery
// invocation. Order is discovery order: file enumeration order, then match
// order within each file. Duplicate class names are legal and preserved.
type Blueprint []DiscoveredClass

// NewClass creates a DiscoveredClass with non-nil member collections.
// Property and method lists may be empty but are never null in output.
func NewClass(name, namespace string) DiscoveredClass {
	return DiscoveredClass{
		Name:       name,
		Namespace:  namespace,
		Properties: []DiscoveredProperty{},
		Methods:    []DiscoveredMethod{},
		Metadata:   map[string]string{},
	}
}

// ClassNames returns the class names in blueprint order.
func (b Blueprint) ClassNames() []string {
	names := make([]string, len(b))
	for i, c := range b {
		names[i] = c.Name
	}
	return names
}

// Find returns the first class with the given name, or nil.
func (b Blueprint) Find(name string) *DiscoveredClass {
	for i := range b {
		if b[i].Name == name {
			return &b[i]
		}
	}
	return nil
}
