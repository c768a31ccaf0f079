package inventory_test

import (
	"bytes"
	"testing"

	"github.com/jefftp/ilandinfo/inventory"
)

func TestWriteRows(t *testing.T) {

	t.Parallel()

	t.Run("output is the header plus one row per item in order", func(t *testing.T) {
		items := []inventory.Item{
			{Name: "vm-a", UUID: "uuid-a"},
			{Name: "vm-b", UUID: "uuid-b"},
		}

		out := &bytes.Buffer{}
		if err := inventory.WriteRows(out, "vm", items); err != nil {
			t.Fatal("Expected rows to write: ", err)
		}

		expected := "Name, UUID\nvm-a, uuid-a\nvm-b, uuid-b\n"
		if out.String() != expected {
			t.Errorf("Expected output %q, got %q", expected, out.String())
		}
	})

	t.Run("locations are printed as a single name column", func(t *testing.T) {
		items := []inventory.Item{
			{Name: "dal02.ilandcloud.com"},
			{Name: "lon02.ilandcloud.com"},
		}

		out := &bytes.Buffer{}
		if err := inventory.WriteRows(out, "location", items); err != nil {
			t.Fatal("Expected rows to write: ", err)
		}

		expected := "Name\ndal02.ilandcloud.com\nlon02.ilandcloud.com\n"
		if out.String() != expected {
			t.Errorf("Expected output %q, got %q", expected, out.String())
		}
	})

	t.Run("no items still prints the header", func(t *testing.T) {
		out := &bytes.Buffer{}
		if err := inventory.WriteRows(out, "vapp", []inventory.Item{}); err != nil {
			t.Fatal("Expected rows to write: ", err)
		}

		if out.String() != "Name, UUID\n" {
			t.Errorf("Expected only the header, got %q", out.String())
		}
	})
}
