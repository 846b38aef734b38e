package excel

import (
	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLength is the longest sheet name Excel accepts.
const MaxSheetNameLength = 31

const defaultSheetName = "Sheet1"

// Sheet is a header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

type ExportOptions struct {
	BoldHeaders  bool
	FreezeHeader bool
	AutoFilter   bool
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{BoldHeaders: true, FreezeHeader: true, AutoFilter: true}
}

// Export renders the sheet as an xlsx workbook.
func Export(sheet Sheet, opts ExportOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = defaultSheetName
	}
	if len([]rune(name)) > MaxSheetNameLength {
		name = string([]rune(name)[:MaxSheetNameLength])
	}
	if name != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, name); err != nil {
			return nil, errors.Wrap(err, "rename sheet")
		}
	}

	for col, header := range sheet.Headers {
		if err := setCell(f, name, col+1, 1, header); err != nil {
			return nil, err
		}
	}
	for r, row := range sheet.Rows {
		for col, value := range row {
			if err := setCell(f, name, col+1, r+2, value); err != nil {
				return nil, err
			}
		}
	}

	if len(sheet.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
		if err != nil {
			return nil, errors.Wrap(err, "header range")
		}
		if opts.BoldHeaders {
			style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
			if err != nil {
				return nil, errors.Wrap(err, "header style")
			}
			if err := f.SetCellStyle(name, "A1", last, style); err != nil {
				return nil, errors.Wrap(err, "apply header style")
			}
		}
		if opts.FreezeHeader {
			if err := f.SetPanes(name, &excelize.Panes{
				Freeze:      true,
				YSplit:      1,
				TopLeftCell: "A2",
				ActivePane:  "bottomLeft",
			}); err != nil {
				return nil, errors.Wrap(err, "freeze header")
			}
		}
		if opts.AutoFilter {
			if err := f.AutoFilter(name, "A1:"+last, nil); err != nil {
				return nil, errors.Wrap(err, "auto filter")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return errors.Wrapf(err, "set %s", cell)
	}
	return nil
}
