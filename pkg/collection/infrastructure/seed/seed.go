// Package seed reads sample records from a JSON fixture file. Fixtures are
// only ever read; edits made in a session are not written back.
package seed

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"storefront/pkg/collection/domain/model"
)

var ErrBadFixture = errors.New("bad fixture")

type fixturesJSON struct {
	Collections map[string][]map[string]any `json:"collections"`
}

// Fixtures holds raw rows per collection name.
type Fixtures map[string][]map[string]any

func Load(filePath string) (Fixtures, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	fixtures, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filePath)
	}
	return fixtures, nil
}

func Parse(data []byte) (Fixtures, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc fixturesJSON
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(ErrBadFixture, err.Error())
	}
	if doc.Collections == nil {
		return Fixtures{}, nil
	}
	return Fixtures(doc.Collections), nil
}

// Records converts the rows of schema's collection. A collection missing
// from the file yields no records.
func (f Fixtures) Records(schema model.Schema) ([]model.Record, error) {
	rows := f[schema.Name]
	records := make([]model.Record, 0, len(rows))
	for i, row := range rows {
		r, err := toRecord(schema, row)
		if err == nil {
			err = schema.Check(r)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", schema.Name, i)
		}
		records = append(records, r)
	}
	return records, nil
}

func (f Fixtures) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func toRecord(schema model.Schema, row map[string]any) (model.Record, error) {
	id, ok := row["id"].(string)
	if !ok || id == "" {
		return model.Record{}, errors.Wrap(ErrBadFixture, "missing string id")
	}
	fields := make(map[string]model.Value, len(row))
	for name, raw := range row {
		if name == "id" {
			continue
		}
		fs, ok := schema.Field(name)
		if !ok {
			return model.Record{}, errors.Wrapf(model.ErrUnknownField, "%q", name)
		}
		v, err := toValue(fs, raw)
		if err != nil {
			return model.Record{}, err
		}
		fields[name] = v
	}
	return model.NewRecord(id, fields), nil
}

func toValue(fs model.FieldSpec, raw any) (model.Value, error) {
	switch fs.Kind {
	case model.Text:
		if s, ok := raw.(string); ok {
			return model.TextValue(s), nil
		}
	case model.Flag:
		if b, ok := raw.(bool); ok {
			return model.FlagValue(b), nil
		}
	case model.Number:
		var text string
		switch n := raw.(type) {
		case json.Number:
			text = n.String()
		case string:
			text = n
		default:
			return model.Value{}, errors.Wrapf(ErrBadFixture, "%q: want %s, got %T", fs.Name, fs.Kind, raw)
		}
		d, err := decimal.NewFromString(text)
		if err != nil {
			return model.Value{}, errors.Wrapf(ErrBadFixture, "%q: %v", fs.Name, err)
		}
		return model.NumberValue(d), nil
	}
	return model.Value{}, errors.Wrapf(ErrBadFixture, "%q: want %s, got %T", fs.Name, fs.Kind, raw)
}
