package loader

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithModel is an option builder that adds a mesh to the library under its own name.
//
// Parameters:
//   - m: the model to add
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.meshes[m.Name()] = m
	}
}

// WithMaterial is an option builder that adds a material to the library under its own name.
//
// Parameters:
//   - m: the material to add
//
// Returns:
//   - LoaderBuilderOption: a function that applies the material option to a loader
func WithMaterial(m material.Material) LoaderBuilderOption {
	return func(l *loader) {
		l.materials[m.Name()] = m
	}
}

// WithDescription is an option builder that pre-populates the description cache.
//
// Parameters:
//   - key: the cache key for the description
//   - d: the description to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the description option to a loader
func WithDescription(key string, d *Description) LoaderBuilderOption {
	return func(l *loader) {
		l.descriptions[key] = d
	}
}
