package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

type xlsxSource struct{}

func (xlsxSource) CanLoad(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), ".xlsx")
}

// Records reads the selected worksheet. The first row is the header.
func (xlsxSource) Records(p string, opt LoadOptions) ([]string, [][]string, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, nil, &SourceError{Path: p, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer zr.Close()

	wb := workbook{files: &zr.Reader}
	target, err := wb.sheetPath(opt.Sheet, opt.SheetIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	sheet := wb.read(target)
	if sheet == nil {
		return nil, nil, fmt.Errorf("%s: worksheet %s missing", filepath.Base(p), target)
	}
	rr := &sheetRows{dec: xml.NewDecoder(bytes.NewReader(sheet)), shared: parseSharedStrings(wb.read("xl/sharedStrings.xml"))}

	header, ok := rr.next()
	if !ok {
		return nil, nil, nil
	}
	var records [][]string
	for {
		row, ok := rr.next()
		if !ok {
			break
		}
		if isBlankRecord(row) {
			continue
		}
		records = append(records, row)
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
	}
	return header, records, nil
}

type workbook struct {
	files *zip.Reader
}

type sheetRef struct {
	name string
	id   int
	rid  string
}

func (w workbook) read(name string) []byte {
	for _, f := range w.files.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

// sheetPath resolves a sheet by name or 1-based index to its zip entry.
func (w workbook) sheetPath(name string, index int) (string, error) {
	sheets := parseSheets(w.read("xl/workbook.xml"))
	rels := parseRels(w.read("xl/_rels/workbook.xml.rels"))

	if name != "" {
		names := make([]string, 0, len(sheets))
		for _, s := range sheets {
			if strings.EqualFold(s.name, name) {
				if t, ok := rels[s.rid]; ok {
					return relPath(t), nil
				}
			}
			names = append(names, s.name)
		}
		return "", fmt.Errorf("sheet %q not found (available: %s)", name, strings.Join(names, ", "))
	}
	if index <= 0 {
		index = 1
	}
	// Position in the workbook is what users count; sheetId can have gaps.
	if index <= len(sheets) {
		if t, ok := rels[sheets[index-1].rid]; ok {
			return relPath(t), nil
		}
	}
	return path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", index)), nil
}

func relPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", target)
}

func parseSheets(data []byte) []sheetRef {
	var out []sheetRef
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var s sheetRef
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.name = a.Value
			case "sheetId":
				s.id, _ = strconv.Atoi(a.Value)
			case "id":
				s.rid = a.Value
			}
		}
		out = append(out, s)
	}
}

func parseRels(data []byte) map[string]string {
	out := map[string]string{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	}
}

func parseSharedStrings(data []byte) []string {
	var out []string
	var buf strings.Builder
	inText := false
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write(se)
			}
		}
	}
}

// sheetRows streams <row> elements as dense string slices.
type sheetRows struct {
	dec    *xml.Decoder
	shared []string
}

func (r *sheetRows) next() ([]string, bool) {
	var row []string
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "row" {
				inRow = true
				row = row[:0]
				continue
			}
			if !inRow || se.Name.Local != "c" {
				continue
			}
			var ref, typ string
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "r":
					ref = a.Value
				case "t":
					typ = a.Value
				}
			}
			col := columnIndex(ref)
			if col < 0 {
				col = len(row)
			}
			for len(row) <= col {
				row = append(row, "")
			}
			row[col] = r.cell(typ)
		case xml.EndElement:
			if se.Name.Local == "row" && inRow {
				return row, true
			}
		}
	}
}

// cell reads up to the closing </c> and resolves shared strings.
func (r *sheetRows) cell(typ string) string {
	var val strings.Builder
	inVal := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val.String()
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				inVal = true
			}
		case xml.CharData:
			if inVal {
				val.Write(se)
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "v", "t":
				inVal = false
			case "c":
				if typ == "s" {
					i, err := strconv.Atoi(strings.TrimSpace(val.String()))
					if err != nil || i < 0 || i >= len(r.shared) {
						return ""
					}
					return r.shared[i]
				}
				return val.String()
			}
		}
	}
}

// columnIndex converts a cell reference like "C12" to 2. It returns -1 when
// the reference carries no column letters.
func columnIndex(ref string) int {
	idx := 0
	n := 0
	for _, c := range strings.ToUpper(ref) {
		if c < 'A' || c > 'Z' {
			break
		}
		idx = idx*26 + int(c-'A'+1)
		n++
	}
	if n == 0 {
		return -1
	}
	return idx - 1
}
