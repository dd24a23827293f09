package tools_test

import (
	"testing"

	"github.com/petasbytes/tool-agent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultToolsInOrder(t *testing.T) {
	reg := tools.Default(nil)
	var names []string
	for _, d := range reg.Describe() {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Description, "tool %q has no description", d.Name)
	}
	assert.Equal(t, []string{"calculator", "get_current_time", "reverse_string"}, names)
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(tools.ReverseStringDefinition))

	err := reg.Register(tools.ReverseStringDefinition)
	var dup *tools.DuplicateToolNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "reverse_string", dup.Name)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_LookupUnknown(t *testing.T) {
	reg := tools.Default(nil)
	_, err := reg.Lookup("does_not_exist")
	var unknown *tools.UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "does_not_exist", unknown.Name)

	def, err := reg.Lookup("calculator")
	require.NoError(t, err)
	assert.Equal(t, "calculator", def.Name)
}

func TestRegistry_FrozenRejectsRegister(t *testing.T) {
	reg := tools.Default(nil)
	err := reg.Register(tools.ToolDefinition{
		Name:     "late",
		Function: func(string) (string, error) { return "", nil },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frozen")
}

func TestRegistry_RejectsInvalidDefinitions(t *testing.T) {
	reg := tools.NewRegistry()
	assert.Error(t, reg.Register(tools.ToolDefinition{Function: func(string) (string, error) { return "", nil }}))
	assert.Error(t, reg.Register(tools.ToolDefinition{Name: "nofn"}))
}

func TestRegistry_DefinitionsCarrySchema(t *testing.T) {
	for _, def := range tools.Default(nil).Definitions() {
		require.NotNil(t, def.InputSchema, def.Name)
		require.NotNil(t, def.InputSchema.Properties, def.Name)
		_, ok := def.InputSchema.Properties.Get("input")
		assert.True(t, ok, "tool %q schema lacks input property", def.Name)
		assert.Empty(t, def.InputSchema.Version)
	}
}
