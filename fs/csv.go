package fs

import (
	"encoding/csv"
	"encoding/json"
	"io"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// EncodeCSV writes list to w as CSV with one column per field, in the given
// order, under a header row of field names. Text fields are written as is;
// lists and maps are encoded as JSON, with absent values left empty.
func EncodeCSV(w io.Writer, list []*animals.Animal, fields []animals.Field) error {
	if len(fields) == 0 {
		fields = animals.DefaultExportFields()
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = string(f)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(fields))
	for _, a := range list {
		for i, f := range fields {
			v, err := csvValue(f, a)
			if err != nil {
				return err
			}
			row[i] = v
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvValue(f animals.Field, a *animals.Animal) (string, error) {
	switch v := f.Value(a).(type) {
	case string:
		return v, nil
	case []string:
		if v == nil {
			return "", nil
		}
		return marshalString(v)
	case map[string]string:
		if v == nil {
			return "", nil
		}
		return marshalString(v)
	}
	return "", nil
}

func marshalString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
