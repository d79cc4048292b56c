package objstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// Inferred column types.
const (
	TypeInteger   = "INTEGER"
	TypeDouble    = "DOUBLE"
	TypeBoolean   = "BOOLEAN"
	TypeTimestamp = "TIMESTAMP"
	TypeVarchar   = "VARCHAR"
)

// candidateDelimiters are tried in order.
var candidateDelimiters = []byte{',', ';', '\t', '|'}

// CSVColumn is a column inferred from a CSV header and sample rows.
type CSVColumn struct {
	Name         string   `json:"name" yaml:"name"`
	DataType     string   `json:"data_type" yaml:"data_type"`
	SampleValues []string `json:"sample_values,omitempty" yaml:"sample_values,omitempty"`
}

// CSVSchema is the result of sniffing a CSV sample.
type CSVSchema struct {
	Delimiter  string      `json:"delimiter" yaml:"delimiter"`
	Columns    []CSVColumn `json:"columns" yaml:"columns"`
	SampleRows int         `json:"sample_rows" yaml:"sample_rows"`
}

// SniffDelimiter returns the first candidate delimiter that occurs more often
// than there are newlines in sample, or ',' when none does.
func SniffDelimiter(sample []byte) rune {
	newlines := bytes.Count(sample, []byte{'\n'})
	for _, d := range candidateDelimiters {
		if n := bytes.Count(sample, []byte{d}); n > 0 && n > newlines {
			return rune(d)
		}
	}
	return ','
}

// InferSchema reads the header and up to maxRows data rows of a CSV sample.
// truncated reports that sample was cut from a larger object, in which case a
// trailing partial line is ignored. Rows whose field count differs from the
// header are skipped. Blank column names and pandas-style "Unnamed:" columns
// are dropped.
func InferSchema(sample []byte, truncated bool, maxRows int) (*CSVSchema, error) {
	if truncated {
		if i := bytes.LastIndexByte(sample, '\n'); i >= 0 {
			sample = sample[:i+1]
		}
	}

	delim := SniffDelimiter(sample)
	r := csv.NewReader(bytes.NewReader(sample))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV sample")
	}
	if err != nil {
		return nil, err
	}

	inferers := make([]typeInferer, len(header))
	samples := make([][]string, len(header))
	rows := 0
	for maxRows <= 0 || rows < maxRows {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(header) {
			continue
		}
		rows++
		for i, v := range record {
			inferers[i].observe(v)
			if v != "" && len(samples[i]) < 3 {
				samples[i] = append(samples[i], v)
			}
		}
	}

	schema := &CSVSchema{Delimiter: string(delim), SampleRows: rows}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" || strings.HasPrefix(name, "Unnamed:") {
			continue
		}
		schema.Columns = append(schema.Columns, CSVColumn{
			Name:         name,
			DataType:     inferers[i].result(),
			SampleValues: samples[i],
		})
	}
	return schema, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// typeInferer narrows a column's type as values are observed. Empty values
// carry no type information.
type typeInferer struct {
	seen                               bool
	notInt, notFloat, notBool, notTime bool
}

func (t *typeInferer) observe(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	t.seen = true

	if !t.notInt {
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			t.notInt = true
		}
	}
	if !t.notFloat {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			t.notFloat = true
		}
	}
	if !t.notBool {
		switch strings.ToLower(v) {
		case "true", "false":
		default:
			t.notBool = true
		}
	}
	if !t.notTime {
		t.notTime = !isTimestamp(v)
	}
}

func isTimestamp(v string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func (t *typeInferer) result() string {
	switch {
	case !t.seen:
		return TypeVarchar
	case !t.notInt:
		return TypeInteger
	case !t.notFloat:
		return TypeDouble
	case !t.notBool:
		return TypeBoolean
	case !t.notTime:
		return TypeTimestamp
	default:
		return TypeVarchar
	}
}
