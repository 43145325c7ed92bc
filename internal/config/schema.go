package config

import (
	"encoding/json"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// WriteSchema writes the JSON schema of the configuration file.
func WriteSchema(w io.Writer) error {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "searchbar configuration"

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(schema); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
