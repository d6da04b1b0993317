package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type delimitedSource struct{}

// CanLoad accepts anything: delimited text is the fallback format.
func (delimitedSource) CanLoad(string) bool { return true }

func (delimitedSource) Records(path string, opt LoadOptions) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &SourceError{Path: path, Err: err}
	}
	defer f.Close()

	br := bufio.NewReader(f)
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, br)
	}
	return readDelimited(br, delim, opt.MaxRows)
}

// ReadDelimited parses delimited text from r. It is exported for callers
// that already hold the content in memory.
func ReadDelimited(r io.Reader, delim rune) ([]string, [][]string, error) {
	return readDelimited(r, delim, 0)
}

func readDelimited(r io.Reader, delim rune, maxRows int) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)

	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
		if maxRows > 0 && len(records) >= maxRows {
			break
		}
	}
	return header, records, nil
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter picks the delimiter by extension, then by the most frequent
// candidate on the first line.
func sniffDelimiter(path string, br *bufio.Reader) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	line, err := br.Peek(4096)
	if err != nil && len(line) == 0 {
		return ','
	}
	first := string(line)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(first, string(c)); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

// ParseDelimiter maps flag/config spellings to a delimiter rune; "" means sniff.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s", s)
	}
}
