// pkg/excel/preview.go
package excel

// Preview is a head/tail sample of one sheet.
type Preview struct {
	SheetName string              `json:"sheet_name"`
	TotalRows int                 `json:"total_rows"`
	TotalCols int                 `json:"total_cols"`
	Columns   []string            `json:"columns"`
	HeadData  []map[string]string `json:"head_data"`
	TailData  []map[string]string `json:"tail_data"`
}

// PreviewSheet samples up to n rows from each end of the named sheet.
func (r *Reader) PreviewSheet(name string, n int) (*Preview, error) {
	grid, err := r.ReadSheet(name)
	if err != nil {
		return nil, err
	}

	header := grid[0]
	body := grid[1:]

	p := &Preview{
		SheetName: name,
		TotalRows: len(body),
		TotalCols: len(header),
		Columns:   header,
	}

	head := n
	if head > len(body) {
		head = len(body)
	}
	for _, row := range body[:head] {
		p.HeadData = append(p.HeadData, rowMap(header, row))
	}

	tailStart := len(body) - n
	if tailStart < 0 {
		tailStart = 0
	}
	for _, row := range body[tailStart:] {
		p.TailData = append(p.TailData, rowMap(header, row))
	}

	return p, nil
}

func rowMap(header []string, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(row) {
			m[col] = row[i]
		} else {
			m[col] = ""
		}
	}
	return m
}
