package build

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// The builder only consumes the columns all source datasets share.
var requiredColumns = []string{
	"Title",
	"IMDb Rating",
	"Year",
	"Certificates",
	"Genre",
	"Director",
	"Star Cast",
	"MetaScore",
	"Duration (minutes)",
}

// Row is one source record reduced to the shared columns. Numeric fields
// are nil when the source value is absent or not parseable.
type Row struct {
	Title           string
	Year            *int
	IMDBRating      *float64
	Metascore       *float64
	DurationMinutes *float64
	Certificate     string
	Genre           string
	Director        string
	StarCast        string
}

// LoadCSV reads one dataset file, validating that every required column is
// present.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset '%s': %w", path, err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("dataset '%s': %w", path, err)
	}
	return rows, nil
}

// LoadCSVs reads and concatenates several dataset files.
func LoadCSVs(paths []string) ([]Row, error) {
	var all []Row
	for _, path := range paths {
		rows, err := LoadCSV(path)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

func readRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed record: %w", err)
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		rows = append(rows, Row{
			Title:           field("Title"),
			Year:            parseInt(field("Year")),
			IMDBRating:      parseFloat(field("IMDb Rating")),
			Metascore:       parseFloat(field("MetaScore")),
			DurationMinutes: parseFloat(field("Duration (minutes)")),
			Certificate:     field("Certificates"),
			Genre:           field("Genre"),
			Director:        field("Director"),
			StarCast:        field("Star Cast"),
		})
	}
	return rows, nil
}

// parseInt coerces a numeric string, tolerating values recorded as floats
// like "2010.0". Anything else counts as absent.
func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := int(f)
		return &v
	}
	return nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	return nil
}
