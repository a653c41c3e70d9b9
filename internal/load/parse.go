package load

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadCSV parses a delimited export. The first row is the header; field
// counts may vary between rows because portals pad trailing columns
// inconsistently.
func ReadCSV(r io.Reader, delimiter rune) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	first := true
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, eris.Wrap(readErr, "load: read csv row")
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if first {
			header = record
			first = false
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, nil, eris.New("load: csv file is empty")
	}
	return header, rows, nil
}

// ReadXLSX parses the named (or first) sheet of an XLSX export. The first
// row is the header.
func ReadXLSX(path, sheetName string) (header []string, rows [][]string, err error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "load: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.Errorf("load: xlsx %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if sheetName != "" {
		named, ok := f.Sheet[sheetName]
		if !ok {
			return nil, nil, eris.Errorf("load: xlsx sheet %q not found", sheetName)
		}
		sheet = named
	}

	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}

	if header == nil {
		return nil, nil, eris.Errorf("load: xlsx %s is empty", path)
	}
	return header, rows, nil
}

// ReadJSON parses a JSON export: either a top-level array of objects or
// an object wrapping one under "permits", "records", "rows", or "data".
func ReadJSON(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "load: read json")
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err == nil {
		return objects, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "load: parse json export")
	}
	for _, key := range []string{"permits", "records", "rows", "data"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &objects); err != nil {
			return nil, eris.Wrapf(err, "load: parse json %q array", key)
		}
		return objects, nil
	}
	return nil, eris.New("load: json export has no recognizable record array")
}

// ExtractZIP extracts an archive into destDir and returns the extracted
// file paths. Entry names are sanitized against path traversal.
func ExtractZIP(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "load: open archive %s", zipPath)
	}
	defer r.Close() //nolint:errcheck

	var extracted []string
	for _, f := range r.File {
		destPath := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return extracted, eris.Errorf("load: archive entry %q escapes destination", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return extracted, eris.Wrap(err, "load: create archive directory")
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return extracted, eris.Wrap(err, "load: create archive parent")
		}

		if err := copyZIPEntry(f, destPath); err != nil {
			return extracted, err
		}
		extracted = append(extracted, destPath)
	}
	return extracted, nil
}

func copyZIPEntry(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "load: open archive entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return eris.Wrapf(err, "load: create %s", destPath)
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return eris.Wrapf(err, "load: extract %s", f.Name)
	}
	return nil
}
