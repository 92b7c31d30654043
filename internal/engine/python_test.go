package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilworks/stencil/internal/blueprint"
)

func TestPythonDiscoverClass(t *testing.T) {
	src := `from dataclasses import dataclass


@track(table="users")
class User:
    name: str
    tags: list[str] = []
    count = 0

    def greet(self, who: str) -> str:
        return "hi " + who

    def __init__(self, size=1):
        self.size: int = size
        self.active = True

    def __repr__(self):
        return "User"


class NotTracked:
    x: int
`
	res := discoverIn(t, newPythonEngine(), map[string]string{"app/models.py": src}, Options{})

	require.Len(t, res.Classes, 1)
	user := res.Classes[0]

	assert.Equal(t, "User", user.Name)
	assert.Equal(t, "app.models", user.Namespace)
	assert.Equal(t, "users", user.Metadata["Table"])

	require.Len(t, user.Properties, 5)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "name", Type: "str"}, user.Properties[0])
	assert.Equal(t, "list[str]", user.Properties[1].Type)
	assert.Equal(t, "str", user.Properties[1].CollectionElementType)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "count", Type: "number"}, user.Properties[2])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "size", Type: "int"}, user.Properties[3])
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "active", Type: "boolean"}, user.Properties[4])

	require.Len(t, user.Methods, 1)
	greet := user.Methods[0]
	assert.Equal(t, "greet", greet.Name)
	assert.Equal(t, "str", greet.ReturnType)
	require.Len(t, greet.Parameters, 1)
	assert.Equal(t, blueprint.DiscoveredParameter{Name: "who", Type: "str"}, greet.Parameters[0])
}

func TestPythonMarkerCaseInsensitive(t *testing.T) {
	src := `@Track
class Upper:
    pass
`
	res := discoverIn(t, newPythonEngine(), map[string]string{"upper.py": src}, Options{})
	require.Len(t, res.Classes, 1)
	assert.Equal(t, "Upper", res.Classes[0].Name)
}

func TestPythonDecoratorStacking(t *testing.T) {
	src := `@track(table="events")
@dataclass
class Event:
    kind: str
`
	res := discoverIn(t, newPythonEngine(), map[string]string{"events.py": src}, Options{})

	require.Len(t, res.Classes, 1)
	assert.Equal(t, "Event", res.Classes[0].Name)
	assert.Equal(t, "events", res.Classes[0].Metadata["Table"])
}

func TestPythonBaseClassList(t *testing.T) {
	src := `@track
class Admin(User, PermissionsMixin):
    level: int
`
	res := discoverIn(t, newPythonEngine(), map[string]string{"admin.py": src}, Options{})

	require.Len(t, res.Classes, 1)
	admin := res.Classes[0]
	assert.Equal(t, "Admin", admin.Name)
	require.Len(t, admin.Properties, 1)
	assert.Equal(t, blueprint.DiscoveredProperty{Name: "level", Type: "int"}, admin.Properties[0])
}

func TestPythonPackageInitNamespace(t *testing.T) {
	src := `@track
class Config:
    debug: bool
`
	res := discoverIn(t, newPythonEngine(), map[string]string{"pkg/__init__.py": src}, Options{})

	require.Len(t, res.Classes, 1)
	assert.Equal(t, "pkg", res.Classes[0].Namespace)
}

func TestPythonMarkerInDocstringIgnored(t *testing.T) {
	src := `def helper():
    """Uses @track internally."""
    return 1
`
	res := discoverIn(t, newPythonEngine(), map[string]string{"helper.py": src}, Options{})
	assert.Empty(t, res.Classes)
}

func TestPythonTestFilesExcluded(t *testing.T) {
	res := discoverIn(t, newPythonEngine(), map[string]string{
		"real.py":      "@track\nclass Real:\n    pass\n",
		"test_real.py": "@track\nclass FromTest:\n    pass\n",
	}, Options{})

	assert.Equal(t, []string{"Real"}, res.Classes.ClassNames())
}
