package parser

import (
	"agent-staffing/errors"
	"agent-staffing/models"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column names, in input order.
const (
	FieldCustomerName  = "CustomerName"
	FieldDuration      = "AverageCallDurationSeconds"
	FieldStartTime     = "StartTime"
	FieldEndTime       = "EndTime"
	FieldNumberOfCalls = "NumberOfCalls"
	FieldPriority      = "Priority"
)

// fieldCount is the number of leading cells a demand row must carry.
const fieldCount = 6

// Parse reads comma-delimited demand rows from r and returns the validated
// demands in input order.
//
// Blank rows and rows whose first cell starts with '#' are skipped. Extra
// trailing cells are ignored. Validation stops at the first bad row; the
// returned *errors.ValidationError carries its line number. Failures of the
// underlying reader are returned wrapped and are not validation errors.
func Parse(r io.Reader) ([]models.Demand, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var data []models.Demand
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if stderrors.As(err, &csvErr) {
				return nil, &errors.ValidationError{
					Line: csvErr.StartLine,
					Err:  fmt.Errorf("%w: %v", errors.ErrMalformedInput, csvErr.Err),
				}
			}
			return nil, fmt.Errorf("error reading input: %w", err)
		}

		line, _ := reader.FieldPos(0)
		d, ok, err := parseRecord(line, record)
		if err != nil {
			return nil, err
		}
		if ok {
			data = append(data, d)
		}
	}

	if len(data) == 0 {
		return nil, &errors.ValidationError{Err: errors.ErrNoValidRows}
	}
	return data, nil
}

// LoadDemands validates already-split rows. Row numbers in errors are the
// 1-based positions in rows.
func LoadDemands(rows [][]string) ([]models.Demand, error) {
	var data []models.Demand
	for i, record := range rows {
		d, ok, err := parseRecord(i+1, record)
		if err != nil {
			return nil, err
		}
		if ok {
			data = append(data, d)
		}
	}

	if len(data) == 0 {
		return nil, &errors.ValidationError{Err: errors.ErrNoValidRows}
	}
	return data, nil
}

// parseRecord turns one row into a Demand. ok is false for blank and comment
// rows.
func parseRecord(line int, record []string) (d models.Demand, ok bool, err error) {
	if isBlank(record) {
		return d, false, nil
	}
	if strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
		return d, false, nil
	}

	if len(record) < fieldCount {
		return d, false, &errors.ValidationError{
			Line:   line,
			Record: record,
			Err:    fmt.Errorf("%w: expected %d fields, got %d", errors.ErrInvalidFieldCount, fieldCount, len(record)),
		}
	}

	cells := make([]string, fieldCount)
	for i := 0; i < fieldCount; i++ {
		cells[i] = strings.TrimSpace(record[i])
	}

	fail := func(field string, err error) (models.Demand, bool, error) {
		return models.Demand{}, false, &errors.ValidationError{
			Line:   line,
			Field:  field,
			Record: record,
			Err:    err,
		}
	}

	d.Name = cells[0]
	if d.Name == "" {
		return fail(FieldCustomerName, errors.ErrEmptyName)
	}

	d.AverageCallDurationSeconds, err = strconv.ParseFloat(cells[1], 64)
	if err != nil {
		return fail(FieldDuration, fmt.Errorf("%w: %q is not a number", errors.ErrInvalidDuration, cells[1]))
	}
	if !(d.AverageCallDurationSeconds > 0) || math.IsInf(d.AverageCallDurationSeconds, 0) {
		return fail(FieldDuration, fmt.Errorf("%w: must be > 0, got %s", errors.ErrInvalidDuration, cells[1]))
	}

	d.NumberOfCalls, err = strconv.Atoi(cells[4])
	if err != nil {
		return fail(FieldNumberOfCalls, fmt.Errorf("%w: %q is not an integer", errors.ErrInvalidNumberOfCalls, cells[4]))
	}
	if d.NumberOfCalls < 0 {
		return fail(FieldNumberOfCalls, fmt.Errorf("%w: must be >= 0, got %d", errors.ErrInvalidNumberOfCalls, d.NumberOfCalls))
	}

	d.Priority, err = strconv.Atoi(cells[5])
	if err != nil {
		return fail(FieldPriority, fmt.Errorf("%w: %q is not an integer", errors.ErrInvalidPriority, cells[5]))
	}
	if d.Priority < 1 || d.Priority > 5 {
		return fail(FieldPriority, fmt.Errorf("%w: must be in [1,5], got %d", errors.ErrInvalidPriority, d.Priority))
	}

	d.StartHour, err = ParseTimeLabel(cells[2])
	if err != nil {
		return fail(FieldStartTime, fmt.Errorf("%w: %w", errors.ErrInvalidStartTime, err))
	}
	d.EndHour, err = ParseTimeLabel(cells[3])
	if err != nil {
		return fail(FieldEndTime, fmt.Errorf("%w: %w", errors.ErrInvalidEndTime, err))
	}

	if d.StartHour < 0 || d.StartHour >= models.HoursPerDay {
		return fail(FieldStartTime, fmt.Errorf("%w: start hour out of range: %d", errors.ErrInvalidStartTime, d.StartHour))
	}
	if d.EndHour < 1 || d.EndHour > models.HoursPerDay {
		return fail(FieldEndTime, fmt.Errorf("%w: end hour out of range: %d", errors.ErrInvalidEndTime, d.EndHour))
	}
	if d.EndHour <= d.StartHour {
		return fail(FieldEndTime, fmt.Errorf("%w (start=%d, end=%d)", errors.ErrInvalidWindow, d.StartHour, d.EndHour))
	}

	return d, true, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
