package export

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// XMLWriter writes the dataset as an XML document:
//
//	<normalized>
//	  <row n="1">
//	    <field name="sku">A1</field>
//	    <field name="Item Colour">red</field>
//	  </row>
//	</normalized>
//
// Field names go in an attribute because vendor column names are rarely
// valid element names. Rows are numbered from 1.
type XMLWriter struct {
	// Indent is the indentation string. Default: two spaces.
	Indent string
}

type xmlDocument struct {
	XMLName xml.Name `xml:"normalized"`
	Rows    []xmlRow `xml:"row"`
}

type xmlRow struct {
	N      int        `xml:"n,attr"`
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Extension implements Writer.
func (XMLWriter) Extension() string { return ".xml" }

// Write implements Writer.
func (x XMLWriter) Write(_ context.Context, path string, ds types.Dataset) error {
	indent := x.Indent
	if indent == "" {
		indent = "  "
	}

	doc := xmlDocument{Rows: make([]xmlRow, ds.Len())}
	for i := 0; i < ds.Len(); i++ {
		record := ds.Record(i)
		row := xmlRow{N: i + 1, Fields: make([]xmlField, len(ds.Fields))}
		for j, f := range ds.Fields {
			row.Fields[j] = xmlField{Name: f, Value: record[j]}
		}
		doc.Rows[i] = row
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if _, err := buf.WriteString(xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(buf)
	enc.Indent("", indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal XML: %w", err)
	}
	if err := buf.WriteByte('\n'); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	return nil
}
