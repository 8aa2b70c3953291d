package hydrograph

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn string // Column name for dates (default: "date")
	FlowColumn string // Column name for discharge (default: "flow")
	DateFormat string // Date format (default: "2006-01-02")
	HasHeader  bool   // Whether CSV has header row (default: true)
	Delimiter  rune   // Field delimiter (default: ',')
	Station    string // Station identifier to attach to the series
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn: "date",
		FlowColumn: "flow",
		DateFormat: "2006-01-02",
		HasHeader:  true,
		Delimiter:  ',',
	}
}

// LoadCSV loads a streamflow series from a CSV file. Rows whose discharge
// is empty or non-numeric become NaN so that gaps stay aligned with dates.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a streamflow series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	dateIdx, flowIdx := 0, 1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}
		dateIdx, flowIdx = -1, -1
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(strings.Trim(h, "\"")))
			switch {
			case h == strings.ToLower(opts.DateColumn) || h == "date" || h == "ds" || h == "datetime":
				if dateIdx == -1 {
					dateIdx = i
				}
			case h == strings.ToLower(opts.FlowColumn) || h == "flow" || h == "q" || h == "discharge":
				if flowIdx == -1 {
					flowIdx = i
				}
			}
		}
		if dateIdx == -1 || flowIdx == -1 {
			return nil, errors.New("date or flow column not found in CSV header")
		}
	}

	var values []float64
	var timestamps []time.Time

	formats := []string{
		opts.DateFormat,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"2006/01/02",
		"01/02/2006",
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if dateIdx >= len(record) || flowIdx >= len(record) {
			continue
		}

		dateStr := strings.TrimSpace(strings.Trim(record[dateIdx], "\""))
		var ts time.Time
		parsed := false
		for _, f := range formats {
			if ts, err = time.Parse(f, dateStr); err == nil {
				parsed = true
				break
			}
		}
		if !parsed {
			continue
		}

		flowStr := strings.TrimSpace(strings.Trim(record[flowIdx], "\""))
		v := math.NaN()
		if flowStr != "" && flowStr != "NA" && flowStr != "NaN" && flowStr != "null" {
			if f, err := strconv.ParseFloat(flowStr, 64); err == nil {
				v = f
			}
		}

		timestamps = append(timestamps, ts)
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	s, err := NewWithTimestamps(timestamps, values)
	if err != nil {
		return nil, err
	}
	s.Station = opts.Station
	return s, nil
}

// SaveCSV writes a series (or a set of aligned series sharing the first
// series' timestamps) to a CSV file with one column per series name.
func SaveCSV(filename string, names []string, series []*Series) error {
	if len(names) != len(series) || len(series) == 0 {
		return errors.New("names and series must be non-empty and the same length")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	writer.WriteString("date," + strings.Join(names, ",") + "\n")

	base := series[0]
	for i := range base.Values {
		writer.WriteString(base.Timestamps[i].Format("2006-01-02"))
		for _, s := range series {
			writer.WriteString(",")
			if i < len(s.Values) && !math.IsNaN(s.Values[i]) {
				writer.WriteString(strconv.FormatFloat(s.Values[i], 'f', -1, 64))
			}
		}
		writer.WriteString("\n")
	}
	return nil
}
