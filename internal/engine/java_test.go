package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/blueprint"
)

func TestJavaDiscoverClass(t *testing.T) {
	src := `package com.shop.models;

import java.util.List;

/**
 * An order. The word Track in javadoc prose must not mark anything.
 */
@Entity
@Track(table = "orders")
public class Order {
    private Long id;
    private List<OrderLine> lines;
    String note;

    public Long getId() {
        return id;
    }

    public void addLine(OrderLine line, int quantity) {
        lines.add(line);
    }
}
`
	res := discoverIn(t, newJavaEngine(), map[string]string{"Order.java": src}, Options{})

	require.Len(t, res.Classes, 1)
	order := res.Classes[0]

	assert.Equal(t, "Order", order.Name)
	assert.Equal(t, "com.shop.models", order.Namespace)
	assert.Equal(t, map[string]string{"Table": "orders"}, order.Metadata)

	require.Len(t, order.Properties, 3)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "id", Type: "Long"}, order.Properties[0])
	assert.Equal(t, "List<OrderLine>", order.Properties[1].Type)
	assert.Equal(t, "OrderLine", order.Properties[1].CollectionElementType)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "note", Type: "String"}, order.Properties[2])

	require.Len(t, order.Methods, 2)
	assert.Equal(t, "getId", order.Methods[0].Name)
	assert.Equal(t, "Long", order.Methods[0].ReturnType)
	assert.Empty(t, order.Methods[0].Parameters)

	addLine := order.Methods[1]
	assert.Equal(t, "addLine", addLine.Name)
	assert.Equal(t, "Object", addLine.ReturnType)
	require.Len(t, addLine.Parameters, 2)
	assert.Equal(t, blueprint.DiscoveredParameter{Name: "line", Type: "OrderLine"}, addLine.Parameters[0])
	assert.Equal(t, blueprint.DiscoveredParameter{Name: "quantity", Type: "int"}, addLine.Parameters[1])
}

func TestJavaInterfaceAndRecord(t *testing.T) {
	src := `package com.shop;

@Track
interface Priced {
    BigDecimal price();
}

@Track(kind = "value")
record Money(long amount, String currency) {
}
`
	res := discoverIn(t, newJavaEngine(), map[string]string{"Types.java": src}, Options{})

	require.Len(t, res.Classes, 2)
	assert.Equal(t, []string{"Priced", "Money"}, res.Classes.ClassNames())
	assert.Equal(t, "value", res.Classes[1].Metadata["Kind"])

	priced := res.Classes[0]
	require.Len(t, priced.Methods, 1)
	assert.Equal(t, "price", priced.Methods[0].Name)
	assert.Equal(t, "BigDecimal", priced.Methods[0].ReturnType)
}

func TestJavaMarkerOnMethodIgnored(t *testing.T) {
	src := `package com.shop;

public class Service {
    @Track
    public void run() {
    }
}
`
	res := discoverIn(t, newJavaEngine(), map[string]string{"Service.java": src}, Options{})
	assert.Empty(t, res.Classes)
}

func TestJavaTestFilesExcluded(t *testing.T) {
	marked := "package a;\n\n@Track\npublic class Real { }\n"
	test := "package a;\n\n@Track\npublic class RealTest { }\n"

	res := discoverIn(t, newJavaEngine(), map[string]string{
		"Real.java":     marked,
		"RealTest.java": test,
	}, Options{})

	assert.Equal(t, []string{"Real"}, res.Classes.ClassNames())
}
