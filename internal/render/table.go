// Package render draws extracted tables for terminal display.
package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"babinium/internal/domain"
)

// NoDataMessage is shown in place of a table when there are no rows.
const NoDataMessage = "No data to display."

// Table renders data as an ASCII grid. Columns come from the first row and
// every cell is stringified regardless of its type.
func Table(w io.Writer, data domain.TableData) error {
	if len(data) == 0 {
		_, err := fmt.Fprintln(w, NoDataMessage)
		return err
	}

	columns := data.Columns()
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	for i := range data {
		tw.Append(data[i].Record(columns))
	}
	tw.Render()
	return nil
}
