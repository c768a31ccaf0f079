package inventory

import (
	"fmt"
	"io"
)

// rowDelimiter separates the columns of a printed row.
const rowDelimiter = ", "

// WriteRows writes a header row followed by one delimited row per item, in
// the order given. Locations carry no UUID and are printed as a single
// name column.
func WriteRows(w io.Writer, object string, items []Item) error {

	nameOnly := object == "location"

	if err := writeHeader(w, nameOnly); err != nil {
		return err
	}

	for _, item := range items {
		var err error
		if nameOnly {
			_, err = fmt.Fprintf(w, "%v\n", item.Name)
		} else {
			_, err = fmt.Fprintf(w, "%v%v%v\n", item.Name, rowDelimiter, item.UUID)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func writeHeader(w io.Writer, nameOnly bool) error {
	header := "Name" + rowDelimiter + "UUID"
	if nameOnly {
		header = "Name"
	}
	_, err := fmt.Fprintf(w, "%v\n", header)
	return err
}
