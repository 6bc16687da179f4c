package editplan

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var requiredSegmentHeaders = []string{"start", "end"}

// ParseSegmentsCSV reads a bare segment list from CSV or TSV. The header row
// must name start and end; reason is optional. Times are seconds ("12.5") or
// clock values ("0:12.5", "1:02:03"). Rows with problems are reported as
// ValidationErrors alongside whatever parsed cleanly.
func ParseSegmentsCSV(data []byte) ([]Segment, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	comma, err := detectDelimiter(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	var (
		segments []Segment
		errs     ValidationErrors
		header   map[string]int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse segments: %w", err)
		}
		if header == nil {
			if header, err = segmentHeader(record); err != nil {
				return nil, err
			}
			continue
		}
		if isBlank(record) {
			continue
		}
		seg, rowErrs := parseSegmentRecord(record, header, len(segments)+1)
		errs = append(errs, rowErrs...)
		segments = append(segments, seg)
	}

	if header == nil {
		return nil, errors.New("missing header row")
	}
	if len(segments) == 0 {
		return nil, errors.New("no segment rows found")
	}
	if len(errs) > 0 {
		return segments, errs
	}
	return segments, nil
}

func detectDelimiter(data []byte) (rune, error) {
	line := string(data)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	switch {
	case strings.Contains(line, "\t"):
		return '\t', nil
	case strings.Contains(line, ","):
		return ',', nil
	}
	return 0, errors.New("unable to detect delimiter (expected comma or tab)")
}

func segmentHeader(record []string) (map[string]int, error) {
	header := make(map[string]int, len(record))
	for i, raw := range record {
		name := strings.ToLower(strings.TrimSpace(raw))
		if _, dup := header[name]; dup {
			return nil, fmt.Errorf("duplicate header: %s", name)
		}
		header[name] = i
	}
	for _, required := range requiredSegmentHeaders {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("missing required header: %s", required)
		}
	}
	return header, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseSegmentRecord(record []string, header map[string]int, index int) (Segment, ValidationErrors) {
	var errs ValidationErrors
	get := func(field string) string {
		pos, ok := header[field]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}
	timeField := func(field string) float64 {
		raw := get(field)
		if raw == "" {
			errs = append(errs, ValidationError{Section: "segments", Index: index, Field: field, Message: "is required"})
			return 0
		}
		v, err := ParseTimestamp(raw)
		if err != nil {
			errs = append(errs, ValidationError{Section: "segments", Index: index, Field: field, Message: err.Error()})
		}
		return v
	}

	seg := Segment{
		Start:  timeField("start"),
		End:    timeField("end"),
		Reason: Reason(strings.ToLower(get("reason"))),
	}
	return seg, errs
}

// ParseTimestamp accepts plain seconds or [h:]m:ss[.fff] and returns seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}

	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	if len(parts) > 1 && seconds >= 60 {
		return 0, fmt.Errorf("seconds must be below 60 in %q", value)
	}

	total := seconds
	scale := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("minutes must be below 60 in %q", value)
		}
		total += float64(n) * scale
		scale *= 60
	}
	return total, nil
}
