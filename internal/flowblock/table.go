package flowblock

import (
	"superdoc/internal/docmodel"
	"superdoc/internal/style"
	"superdoc/internal/warn"
)

// convertTable implements the "table / tableRow / tableCell / tableHeader"
// handler of spec.md §4.E. tableHeader is folded into the same Cell shape
// as tableCell (spec.md: "semantically equivalent... both serialize as
// w:tc"); only Cell.IsHeader differs.
func (c *Converter) convertTable(n *docmodel.Node, pmPos int, sdt sdtFrame) ([]Block, []warn.Warning) {
	var warnings []warn.Warning

	id := synthID(n, "tbl")

	gridVals, _ := n.Attrs.List("grid")
	if len(gridVals) == 0 {
		warnings = append(warnings, warn.New(warn.CodeInputMalformed, id, "table missing required attr \"grid\""))
	}
	grid := make([]float64, len(gridVals))
	for i, v := range gridVals {
		grid[i], _ = asNumber(v)
	}

	tableStyleID, _ := n.Attrs.String("tableStyleId")
	direct, _ := n.Attrs.Map("tableProperties")
	tableProps := c.resolver.ResolveTableProperties(tableStyleID, attrsToProperties(direct))

	rows := n.Content
	lastRowIdx := len(rows) - 1
	outRows := make([][]Cell, 0, len(rows))
	cursor := pmPos + 1

	for ri, row := range rows {
		rowStart := cursor
		cellCursor := cursor + 1
		lastColIdx := len(row.Content) - 1
		colIdx := 0

		var outCells []Cell
		for _, cell := range row.Content {
			colspan := 1
			if v, ok := cell.Attrs.Number("colspan"); ok && v > 0 {
				colspan = int(v)
			}
			rowspan := 1
			if v, ok := cell.Attrs.Number("rowspan"); ok && v > 0 {
				rowspan = int(v)
			}
			vmerge, _ := cell.Attrs.Bool("vMerge")
			isHeader := cell.Type == docmodel.NodeTableHeader

			regions := tableRegions(ri, lastRowIdx, colIdx, lastColIdx)
			tf := tableFrame{cell: &style.TableCellContext{TableStyleID: tableStyleID, Regions: regions}}

			cellDirect, _ := cell.Attrs.Map("cellProperties")
			cellProps := c.resolver.ResolveTableCellProperties(tableStyleID, tf.cell, attrsToProperties(cellDirect))

			content, ws := c.walkChildren(cell.Content, cellCursor+1, sdt, tf)
			warnings = append(warnings, ws...)

			outCells = append(outCells, Cell{
				Colspan:    colspan,
				Rowspan:    rowspan,
				VMerge:     vmerge,
				IsHeader:   isHeader,
				ColWidths:  colWidthsFor(grid, colIdx, colspan),
				Properties: cellProps,
				Content:    content,
			})

			cellCursor += cell.Size()
			colIdx += colspan
		}

		outRows = append(outRows, outCells)
		cursor = rowStart + row.Size()
	}

	tb := &TableBlock{
		ID:         id,
		Grid:       grid,
		Rows:       outRows,
		Properties: tableProps,
	}
	return []Block{tableBlock(tb)}, warnings
}

func colWidthsFor(grid []float64, colIdx, colspan int) []float64 {
	if colIdx < 0 || colIdx >= len(grid) {
		return nil
	}
	end := colIdx + colspan
	if end > len(grid) {
		end = len(grid)
	}
	out := make([]float64, end-colIdx)
	copy(out, grid[colIdx:end])
	return out
}

// tableRegions computes which conditional tblStylePr regions a cell at
// (rowIdx, colIdx) falls into, given the last row/column indices of its
// table (spec.md §4.B: "wholeTable then row/column-band then cell corner").
func tableRegions(rowIdx, lastRowIdx, colIdx, lastColIdx int) []style.TableRegion {
	regions := []style.TableRegion{style.RegionWholeTable}

	if rowIdx%2 == 0 {
		regions = append(regions, style.RegionBand1Horz)
	} else {
		regions = append(regions, style.RegionBand2Horz)
	}
	if colIdx%2 == 0 {
		regions = append(regions, style.RegionBand1Vert)
	} else {
		regions = append(regions, style.RegionBand2Vert)
	}

	firstRow := rowIdx == 0
	lastRow := rowIdx == lastRowIdx
	firstCol := colIdx == 0
	lastCol := colIdx == lastColIdx

	switch {
	case firstRow && firstCol:
		regions = append(regions, style.RegionFirstRow, style.RegionFirstCol, style.RegionNWCell)
	case firstRow && lastCol:
		regions = append(regions, style.RegionFirstRow, style.RegionLastCol, style.RegionNECell)
	case lastRow && firstCol:
		regions = append(regions, style.RegionLastRow, style.RegionFirstCol, style.RegionSWCell)
	case lastRow && lastCol:
		regions = append(regions, style.RegionLastRow, style.RegionLastCol, style.RegionSECell)
	default:
		if firstRow {
			regions = append(regions, style.RegionFirstRow)
		}
		if lastRow {
			regions = append(regions, style.RegionLastRow)
		}
		if firstCol {
			regions = append(regions, style.RegionFirstCol)
		}
		if lastCol {
			regions = append(regions, style.RegionLastCol)
		}
	}

	return regions
}
