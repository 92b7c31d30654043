package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/blueprint"
)

func TestGoDiscoverStruct(t *testing.T) {
	src := `package models

import "time"

// Order is a customer order.
// @Track(table="orders")
type Order struct {
	ID      int
	Items   []Item
	Labels  map[string]string
	Created time.Time
	note    string
}

// Untracked has no directive.
type Untracked struct {
	X int
}

func (o *Order) Total() int {
	return 0
}

func (o *Order) Add(item Item, qty int) error {
	return nil
}

func (u *Untracked) Noop() {}
`
	res := discoverIn(t, newGoEngine(), map[string]string{
		"go.mod":          "module example.com/shop\n\ngo 1.25\n",
		"models/order.go": src,
	}, Options{})

	require.Len(t, res.Classes, 1)
	order := res.Classes[0]

	assert.Equal(t, "Order", order.Name)
	assert.Equal(t, "example.com/shop/models", order.Namespace)
	assert.Equal(t, "orders", order.Metadata["Table"])

	require.Len(t, order.Properties, 5)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "ID", Type: "int"}, order.Properties[0])
	assert.Equal(t, "[]Item", order.Properties[1].Type)
	assert.Equal(t, "Item", order.Properties[1].CollectionElementType)
	assert.Equal(t, "map[string]string", order.Properties[2].Type)
	assert.Equal(t, "string", order.Properties[2].CollectionElementType)
	assert.Equal(t, "time.Time", order.Properties[3].Type)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "note", Type: "string"}, order.Properties[4])

	require.Len(t, order.Methods, 2)
	assert.Equal(t, "Total", order.Methods[0].Name)
	assert.Equal(t, "int", order.Methods[0].ReturnType)

	add := order.Methods[1]
	assert.Equal(t, "Add", add.Name)
	assert.Equal(t, "error", add.ReturnType)
	require.Len(t, add.Parameters, 2)
	assert.Equal(t, blueprint.DiscoveredParameter{Name: "item", Type: "Item"}, add.Parameters[0])
	assert.Equal(t, blueprint.DiscoveredParameter{Name: "qty", Type: "int"}, add.Parameters[1])
}

func TestGoNamespaceWithoutGoMod(t *testing.T) {
	src := `package widgets

// @Track
type Widget struct {
	Name string
}
`
	res := discoverIn(t, newGoEngine(), map[string]string{"widget.go": src}, Options{})

	require.Len(t, res.Classes, 1)
	assert.Equal(t, "widgets", res.Classes[0].Namespace)
}

func TestGoEmbeddedAndPointerFields(t *testing.T) {
	src := `package models

// @Track
type Account struct {
	Base
	*Audit
	Owner *User
}
`
	res := discoverIn(t, newGoEngine(), map[string]string{
		"go.mod":    "module example.com/app\n",
		"models.go": src,
	}, Options{})

	require.Len(t, res.Classes, 1)
	props := res.Classes[0].Properties
	require.Len(t, props, 3)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "Base", Type: "Base"}, props[0])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "Audit", Type: "*Audit"}, props[1])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "Owner", Type: "*User"}, props[2])
}

func TestGoMethodWithNoResults(t *testing.T) {
	src := `package models

// @Track
type Job struct{}

func (j Job) Run() {}
`
	res := discoverIn(t, newGoEngine(), map[string]string{"job.go": src}, Options{})

	require.Len(t, res.Classes, 1)
	require.Len(t, res.Classes[0].Methods, 1)
	assert.Equal(t, "interface{}", res.Classes[0].Methods[0].ReturnType)
}

func TestGoSyntaxErrorIsContained(t *testing.T) {
	res := discoverIn(t, newGoEngine(), map[string]string{
		"bad.go":  "package models\n\nfunc {broken\n",
		"good.go": "package models\n\n// @Track\ntype Good struct{}\n",
	}, Options{})

	assert.Equal(t, []string{"Good"}, res.Classes.ClassNames())
	assert.Equal(t, 1, res.Summary.FilesScanned)
	assert.Equal(t, 1, res.Summary.FilesSkipped)
}

func TestGoTestFilesExcluded(t *testing.T) {
	res := discoverIn(t, newGoEngine(), map[string]string{
		"a.go":      "package p\n\n// @Track\ntype Real struct{}\n",
		"a_test.go": "package p\n\n// @Track\ntype FromTest struct{}\n",
	}, Options{})

	assert.Equal(t, []string{"Real"}, res.Classes.ClassNames())
}

func TestGoDirectiveInsideFuncIgnored(t *testing.T) {
	src := `package p

func build() {
	// @Track
	type local struct{ X int }
	_ = local{}
}
`
	res := discoverIn(t, newGoEngine(), map[string]string{"local.go": src}, Options{})
	assert.Empty(t, res.Classes)
}
