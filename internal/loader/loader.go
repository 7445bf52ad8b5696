// Package loader reads the semicolon-delimited tables that describe a transit
// network: one table of line membership and two distance tables (real and
// straight-line).
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdrpinto/metro/network"
)

// NoEdge is the cell token that marks a missing connection.
const NoEdge = "x"

// Files names the three input tables.
type Files struct {
	Lines          string
	RealDistance   string
	DirectDistance string
}

// Load reads the three tables and builds a network model from them.
func Load(files Files, options ...network.Option) (*network.Model, error) {
	lines, err := readFile(files.Lines, ReadLines)
	if err != nil {
		return nil, err
	}
	realTable, err := readFile(files.RealDistance, ReadDistances)
	if err != nil {
		return nil, err
	}
	direct, err := readFile(files.DirectDistance, ReadDistances)
	if err != nil {
		return nil, err
	}

	model, err := network.Build(lines, realTable, direct, options...)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	return model, nil
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	file, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("could not open table: %w", err)
	}
	defer file.Close()

	table, err := read(file)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// ReadLines parses a line membership table: a header of line names followed
// by rows of station names, one column per line.
func ReadLines(r io.Reader) (network.LineTable, error) {
	records, err := readRecords(r)
	if err != nil {
		return network.LineTable{}, err
	}
	if len(records) == 0 {
		return network.LineTable{}, errors.New("line table is empty")
	}

	table := network.LineTable{Lines: normalizeAll(records[0])}
	for _, record := range records[1:] {
		table.Rows = append(table.Rows, normalizeAll(record))
	}
	return table, nil
}

// ReadDistances parses a distance table whose header and first column both
// hold station names. Cells may use a decimal comma; empty cells and the
// NoEdge token are left unset.
func ReadDistances(r io.Reader) (network.DistanceTable, error) {
	records, err := readRecords(r)
	if err != nil {
		return network.DistanceTable{}, err
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return network.DistanceTable{}, errors.New("distance table has no station columns")
	}

	table := network.DistanceTable{Columns: normalizeAll(records[0][1:])}
	for i, record := range records[1:] {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := network.DistanceRow{Station: network.Normalize(record[0])}
		for j, raw := range record[1:] {
			cell, err := parseCell(raw)
			if err != nil {
				return network.DistanceTable{}, fmt.Errorf("row %d (%s), column %d: %w", i+2, row.Station, j+2, err)
			}
			row.Cells = append(row.Cells, cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func parseCell(raw string) (network.Cell, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" || text == NoEdge {
		return network.Cell{}, nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return network.Cell{}, fmt.Errorf("invalid distance %q", raw)
	}
	return network.Distance(value), nil
}

func readRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func normalizeAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = network.Normalize(field)
	}
	return out
}
