package scene

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(m *manager)

// WithScene registers a factory under id.
//
// Parameters:
//   - id: the scene id
//   - factory: the factory building the scene
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithScene(id string, factory Factory) ManagerBuilderOption {
	return func(m *manager) {
		m.Register(id, factory)
	}
}

// WithMainScene sets the id LoadMain loads. Defaults to the first registered id.
//
// Parameters:
//   - id: the scene id
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithMainScene(id string) ManagerBuilderOption {
	return func(m *manager) {
		m.mainID = id
	}
}
