package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrLoad is the sentinel wrapped by every LoadError.
var ErrLoad = errors.New("load failed")

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// LoadError reports a file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// LoadOptions configures how a file is turned into a table.
type LoadOptions struct {
	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet string
	// NoHeaderRow treats the first row as data and synthesizes headers.
	NoHeaderRow bool
}

// Extensions lists the file extensions Load can read.
var Extensions = []string{".csv", ".tsv", ".xlsx", ".xlsm", ".xltx", ".xltm"}

// Supported reports whether Load has a reader for path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads a spreadsheet file into a table. The reader is picked by file
// extension.
func Load(path string, opts LoadOptions) (*Table, error) {
	if path == "" {
		return nil, &LoadError{Path: path, Err: errors.New("file path is empty")}
	}

	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		rows, err = readXLSX(path, opts.Sheet)
	case ".csv":
		rows, err = readDelimited(path, ',')
	case ".tsv":
		rows, err = readDelimited(path, '\t')
	case ".xls":
		err = fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", ErrUnsupportedFormat)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	header, records := splitHeader(rows, opts.NoHeaderRow)
	return New(path, header, records), nil
}

// splitHeader separates the header row from the data rows. The header is
// widened to the longest row so no cell is lost.
func splitHeader(rows [][]string, noHeader bool) ([]string, [][]string) {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	var header []string
	records := rows
	if !noHeader && len(rows) > 0 {
		header = rows[0]
		records = rows[1:]
	}
	padded := make([]string, width)
	copy(padded, header)
	return NormalizeHeaders(padded), records
}

// excelColumnName converts a 0-based index to an Excel-style column name.
// Examples: 0 -> A, 25 -> Z, 26 -> AA, 701 -> ZZ.
func excelColumnName(index int) string {
	result := ""
	index++
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}

// NormalizeHeaders makes every header usable as a column name.
//
// Rules:
//   - surrounding whitespace is trimmed
//   - blank headers become Unnamed_A, Unnamed_B, ...
//   - repeated names get a numeric suffix: Age, Age.1, Age.2
//
// Example:
//
//	Input:  ["name", "", "age", "age", " "]
//	Output: ["name", "Unnamed_A", "age", "age.1", "Unnamed_B"]
func NormalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	seen := make(map[string]int, len(header))
	emptyCount := 0

	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed_" + excelColumnName(emptyCount)
			emptyCount++
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			normalized[i] = name + "." + strconv.Itoa(n+1)
			continue
		}
		seen[name] = 0
		normalized[i] = name
	}
	return normalized
}
