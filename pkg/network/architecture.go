package network

import "github.com/matzehuels/netgraph/pkg/errors"

// Architecture is a named, saved layer list.
type Architecture struct {
	Name        string      `json:"name" toml:"name" bson:"_id"`
	Title       string      `json:"title,omitempty" toml:"title,omitempty" bson:"title,omitempty"`
	Description string      `json:"description,omitempty" toml:"description,omitempty" bson:"description,omitempty"`
	Layers      []LayerSpec `json:"layers" toml:"layer" bson:"layers"`
}

// Validate checks the name and the layer list.
func (a Architecture) Validate() error {
	if a.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "architecture name is required")
	}
	return ValidateLayers(a.Layers)
}
