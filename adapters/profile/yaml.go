package profile

import (
	"gopkg.in/yaml.v3"

	perrors "pajakin/internal/errors"
)

func parseYAML(src []byte, filename string) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(src, &p); err != nil {
		return nil, perrors.Parsing("invalid YAML profile "+filename, err)
	}
	return &p, nil
}
