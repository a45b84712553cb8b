package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLoadSwitchesScenes(t *testing.T) {
	built := map[string]int{}
	factory := func(id string) Factory {
		return func() Scene {
			built[id]++
			return NewScene(id)
		}
	}

	var changes [][2]string
	m := NewManager(WithScene("menu", factory("menu")), WithScene("level", factory("level")))
	t.Cleanup(m.Release)
	m.OnSceneChanged(func(previous, next Scene) {
		var from, to string
		if previous != nil {
			from = previous.Name()
		}
		if next != nil {
			to = next.Name()
		}
		changes = append(changes, [2]string{from, to})
	})

	assert.Equal(t, []string{"level", "menu"}, m.Registered())
	assert.Equal(t, "menu", m.MainSceneID())
	assert.Nil(t, m.Current())

	menu, err := m.LoadMain()
	require.NoError(t, err)
	assert.Equal(t, StateInitialized, menu.State())
	assert.Same(t, menu, m.Current())
	assert.Equal(t, "menu", m.CurrentID())

	level, err := m.Load("level")
	require.NoError(t, err)
	assert.Equal(t, StateUninitialized, menu.State())
	assert.Equal(t, StateInitialized, level.State())

	again, err := m.Load("menu")
	require.NoError(t, err)
	assert.Same(t, menu, again)
	assert.Equal(t, 1, built["menu"])

	m.Unload()
	assert.Nil(t, m.Current())
	assert.Equal(t, StateUninitialized, menu.State())

	assert.Equal(t, [][2]string{{"", "menu"}, {"menu", "level"}, {"level", "menu"}, {"menu", ""}}, changes)
}

func TestManagerUnknownScene(t *testing.T) {
	m := NewManager()
	_, err := m.Load("nowhere")
	assert.ErrorIs(t, err, ErrUnknownScene)
	_, err = m.Resolve("nowhere")
	assert.ErrorIs(t, err, ErrUnknownScene)
	_, err = m.LoadMain()
	assert.ErrorIs(t, err, ErrUnknownScene)
	assert.Panics(t, func() { m.Register("nil", nil) })
}

func TestManagerUnregister(t *testing.T) {
	m := NewManager(
		WithScene("a", func() Scene { return NewScene("a") }),
		WithScene("b", func() Scene { return NewScene("b") }),
		WithMainScene("b"),
	)
	t.Cleanup(m.Release)
	assert.Equal(t, "b", m.MainSceneID())

	_, err := m.Load("a")
	require.NoError(t, err)
	assert.False(t, m.Unregister("a"))
	assert.True(t, m.Unregister("b"))
	assert.False(t, m.Unregister("b"))
	assert.Empty(t, m.MainSceneID())

	m.SetMainSceneID("a")
	assert.Equal(t, "a", m.MainSceneID())
}
