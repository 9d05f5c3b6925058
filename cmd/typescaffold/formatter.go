package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
)

// OutputFormat is a machine-readable rendering of classification results.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
	FormatYAML OutputFormat = "yaml"
)

// classificationRow is the flattened form of a classification.
type classificationRow struct {
	StoreType string `json:"store_type" yaml:"store_type"`
	Mapped    bool   `json:"mapped" yaml:"mapped"`
	ValueType string `json:"value_type,omitempty" yaml:"value_type,omitempty"`
	Inferred  bool   `json:"inferred" yaml:"inferred"`
	Unicode   *bool  `json:"unicode,omitempty" yaml:"unicode,omitempty"`
	MaxLength *int   `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

func toRows(results []classification) []classificationRow {
	rows := make([]classificationRow, 0, len(results))

	for _, r := range results {
		row := classificationRow{StoreType: r.StoreType}
		if r.Info != nil {
			row.Mapped = true
			row.ValueType = r.Info.ValueType.String()
			row.Inferred = r.Info.IsInferred
			row.Unicode = r.Info.ScaffoldUnicode
			row.MaxLength = r.Info.ScaffoldMaxLength
		}

		rows = append(rows, row)
	}

	return rows
}

// formatClassifications writes results in a machine-readable format.
func formatClassifications(output io.Writer, format OutputFormat, results []classification) error {
	rows := toRows(results)

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")

		return encoder.Encode(rows)
	case FormatCSV:
		return formatAsCSV(output, rows)
	case FormatYAML:
		data, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to marshal results to YAML: %w", err)
		}

		_, err = output.Write(data)

		return err
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, format)
	}
}

func formatAsCSV(output io.Writer, rows []classificationRow) error {
	writer := csv.NewWriter(output)

	if err := writer.Write([]string{"store_type", "mapped", "value_type", "inferred", "unicode", "max_length"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.StoreType,
			strconv.FormatBool(row.Mapped),
			row.ValueType,
			strconv.FormatBool(row.Inferred),
			"",
			"",
		}

		if row.Unicode != nil {
			record[4] = strconv.FormatBool(*row.Unicode)
		}

		if row.MaxLength != nil {
			record[5] = strconv.Itoa(*row.MaxLength)
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}
