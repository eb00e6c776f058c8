// Package fs reads and writes animal records as JSON interchange files.
//
// An interchange file is a UTF-8 JSON array of flat objects with the
// animals.Animal shape. Files are always written atomically: records go to a
// temporary file next to the target which is then renamed over it.
package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// ReadAnimals reads an interchange file.
//
// Reading fails closed: invalid UTF-8, invalid JSON, control characters in
// a value or a record without a name or url reject the whole file with
// EINVALID.
func ReadAnimals(path string) ([]*animals.Animal, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, animals.Errorf(animals.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeAnimals(bytes.NewReader(data))
}

// DecodeAnimals decodes an interchange document from r.
func DecodeAnimals(r io.Reader) ([]*animals.Animal, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// encoding/json would silently replace invalid bytes with U+FFFD.
	if !utf8.Valid(data) {
		return nil, animals.Errorf(animals.EINVALID, "invalid UTF-8 at byte %d", invalidUTF8Offset(data))
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	var list []*animals.Animal
	if err := dec.Decode(&list); err != nil {
		return nil, animals.Errorf(animals.EINVALID, "invalid JSON: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, animals.Errorf(animals.EINVALID, "invalid JSON: trailing data after array")
	}

	for i, a := range list {
		if a == nil {
			return nil, animals.Errorf(animals.EINVALID, "record %d: null record", i)
		}
		if err := a.Validate(); err != nil {
			return nil, animals.Errorf(animals.EINVALID, "record %d: %s", i, animals.ErrorMessage(err))
		}
		if field, ok := controlField(a); ok {
			return nil, animals.Errorf(animals.EINVALID, "record %d: control character in %s", i, field)
		}
	}
	if list == nil {
		list = []*animals.Animal{}
	}
	return list, nil
}

// WriteAnimals writes list to path atomically. Parent directories are
// created as needed.
func WriteAnimals(path string, list []*animals.Animal) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := EncodeAnimals(tmp, list); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// EncodeAnimals writes list to w as an indented interchange document.
// A nil list is written as an empty array.
func EncodeAnimals(w io.Writer, list []*animals.Animal) error {
	if list == nil {
		list = []*animals.Animal{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}

// controlField reports the first text field of a holding a control
// character other than tab, newline or carriage return.
func controlField(a *animals.Animal) (string, bool) {
	for _, f := range animals.Fields() {
		switch v := f.Value(a).(type) {
		case string:
			if hasControl(v) {
				return string(f), true
			}
		case []string:
			for _, s := range v {
				if hasControl(s) {
					return string(f), true
				}
			}
		case map[string]string:
			for k, s := range v {
				if hasControl(k) || hasControl(s) {
					return string(f), true
				}
			}
		}
	}
	return "", false
}

func hasControl(s string) bool {
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
