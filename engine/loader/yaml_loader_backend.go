package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlLoaderBackend decodes YAML scene descriptions. Unknown fields are rejected.
type yamlLoaderBackend struct{}

var _ loaderBackend = &yamlLoaderBackend{}

func newYAMLLoaderBackend() *yamlLoaderBackend {
	return &yamlLoaderBackend{}
}

func (b *yamlLoaderBackend) Load(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadReader(f)
}

func (b *yamlLoaderBackend) LoadReader(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Description
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return &d, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &d, nil
}
