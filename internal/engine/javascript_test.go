package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/blueprint"
)

func TestJavaScriptDiscoverClass(t *testing.T) {
	src := `// @Track(table="carts")
export class Cart {
  items = [];
  count = 0;
  label = "empty";
  open = true;
  #internal;

  constructor(owner) {
    this.owner = owner;
    this.total = 0;
  }

  add(item, qty = 1) {
    this.items.push(item);
  }
}

// an ordinary comment
class NotTracked {
  x = 1;
}
`
	res := discoverIn(t, newJavaScriptEngine(), map[string]string{"cart.js": src}, Options{})

	require.Len(t, res.Classes, 1)
	cart := res.Classes[0]

	assert.Equal(t, "Cart", cart.Name)
	assert.Empty(t, cart.Namespace)
	assert.Equal(t, "carts", cart.Metadata["Table"])

	require.Len(t, cart.Properties, 7)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "items", Type: "array"}, cart.Properties[0])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "count", Type: "number"}, cart.Properties[1])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "label", Type: "string"}, cart.Properties[2])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "open", Type: "boolean"}, cart.Properties[3])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "#internal", Type: "any"}, cart.Properties[4])
	// Constructor assignments come after declared fields.
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "owner", Type: "any"}, cart.Properties[5])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "total", Type: "number"}, cart.Properties[6])

	require.Len(t, cart.Methods, 1)
	add := cart.Methods[0]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, "any", add.ReturnType)
	require.Len(t, add.Parameters, 2)
	assert.Equal(t, "item", add.Parameters[0].Name)
	assert.Equal(t, "qty", add.Parameters[1].Name)
}

func TestJavaScriptArrowFieldIsMethod(t *testing.T) {
	src := `// @Track
class Handler {
  onClick = (event) => {
    console.log(event);
  };
}
`
	res := discoverIn(t, newJavaScriptEngine(), map[string]string{"handler.js": src}, Options{})

	require.Len(t, res.Classes, 1)
	h := res.Classes[0]
	assert.Empty(t, h.Properties)
	require.Len(t, h.Methods, 1)
	assert.Equal(t, "onClick", h.Methods[0].Name)
	require.Len(t, h.Methods[0].Parameters, 1)
	assert.Equal(t, "event", h.Methods[0].Parameters[0].Name)
}

func TestJavaScriptDirectiveMustPrecedeClass(t *testing.T) {
	src := `// @Track
const helper = 1;

class Floating {
  x = 1;
}
`
	res := discoverIn(t, newJavaScriptEngine(), map[string]string{"floating.js": src}, Options{})
	assert.Empty(t, res.Classes)
}

func TestJavaScriptDuplicateFieldAndAssignment(t *testing.T) {
	src := `// @Track
class Counter {
  value = 0;

  constructor() {
    this.value = 10;
  }
}
`
	res := discoverIn(t, newJavaScriptEngine(), map[string]string{"counter.js": src}, Options{})

	require.Len(t, res.Classes, 1)
	props := res.Classes[0].Properties
	require.Len(t, props, 1)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "value", Type: "number"}, props[0])
}
