// Package yaml reads and writes keyword maps as YAML documents:
//
//	diet:
//	  - name: carnivore
//	    patterns: [meat, prey]
//	habitat:
//	  - name: forest
//	    patterns: [forest, woodland]
//
// List order is category priority.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"gopkg.in/yaml.v3"
)

// LoadKeywords reads a keyword file. A map missing from the file falls back
// to the built-in one.
func LoadKeywords(path string) (*animals.Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, animals.Errorf(animals.ENOTFOUND, "keyword file %s not found", path)
		}
		return nil, err
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes a keyword document. Unknown keys are rejected.
func ParseKeywords(data []byte) (*animals.Keywords, error) {
	var kw animals.Keywords

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&kw); err != nil && !errors.Is(err, io.EOF) {
		return nil, animals.Errorf(animals.EINVALID, "invalid keyword file: %v", err)
	}

	defaults := animals.DefaultKeywords()
	if kw.Diet == nil {
		kw.Diet = defaults.Diet
	}
	if kw.Habitat == nil {
		kw.Habitat = defaults.Habitat
	}

	if err := kw.Validate(); err != nil {
		return nil, err
	}
	return &kw, nil
}

// WriteKeywords encodes kw as a keyword document.
func WriteKeywords(w io.Writer, kw *animals.Keywords) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(kw); err != nil {
		return err
	}
	return enc.Close()
}
