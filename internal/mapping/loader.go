package mapping

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"caster-engine/internal/errors"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read mapping file %s", path)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping file %s", path)
	}

	return mf, nil
}

// Parse parses YAML data into a MappingFile. Unknown keys are rejected.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse mapping YAML")
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	for i := range mf.Transforms {
		t := &mf.Transforms[i]
		if t.Func == "" {
			t.Func = t.Name
		}
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return errors.Wrap(err, "marshal mapping")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write mapping file %s", path)
	}

	return nil
}
