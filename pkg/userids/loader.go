package userids

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ColumnName is the CSV header holding user ids
const ColumnName = "user_id"

// ErrNoUsers is returned when a source yields no ids
var ErrNoUsers = errors.New("no user ids found")

// LoadFile reads user ids from path, see Parse
func LoadFile(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close()

	ids, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ids, nil
}

// Parse reads user ids either from a CSV whose header has a user_id column,
// or from plain text with one id per line. Blank lines and lines starting
// with # are ignored. Order and duplicates are preserved.
func Parse(r io.Reader) ([]int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	first := firstLine(data)
	var ids []int64
	if strings.Contains(first, ",") || strings.TrimSpace(first) == ColumnName {
		ids, err = parseCSV(data)
	} else {
		ids, err = parseLines(data)
	}
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoUsers
	}
	return ids, nil
}

func firstLine(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

func parseCSV(data []byte) ([]int64, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == ColumnName {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("CSV header has no %q column", ColumnName)
	}

	var ids []int64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if col >= len(record) || strings.TrimSpace(record[col]) == "" {
			continue
		}
		id, err := parseID(record[col])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseLines(data []byte) ([]int64, error) {
	var ids []int64
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := parseID(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		ids = append(ids, id)
	}
	return ids, sc.Err()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
