package cart

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"furniture-store/core/apperror"
	"furniture-store/feature/catalog"

	"github.com/shopspring/decimal"
)

// CSVHeader is the column layout of a saved cart.
var CSVHeader = []string{"user_email", "item_type", "item_name", "quantity", "price"}

// Row is one line of a saved cart.
type Row struct {
	Email    string
	Kind     catalog.Kind
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Key returns the item key of the row.
func (r Row) Key() string {
	return catalog.ItemKey(r.Kind, r.Name)
}

// Encode writes the cart with CSVHeader as the first row.
func Encode(w io.Writer, c *Cart) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, l := range c.Lines() {
		err := cw.Write([]string{
			c.Owner(),
			string(l.Item.Kind),
			l.Item.Name,
			strconv.Itoa(l.Quantity),
			l.Item.Price.StringFixed(2),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads rows written by Encode. The header must match CSVHeader.
func Decode(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, apperror.Validation("saved cart is empty")
	}
	if err != nil {
		return nil, apperror.Validation("malformed cart csv: %v", err)
	}
	for i, col := range CSVHeader {
		if header[i] != col {
			return nil, apperror.Validation("unexpected cart csv column %q, want %q", header[i], col)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, apperror.Validation("malformed cart csv: %v", err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, apperror.Validation("cart csv line %d: %v", line, err)
		}
		rows = append(rows, row)
	}
}

func parseRow(rec []string) (Row, error) {
	kind, err := catalog.ParseKind(rec[1])
	if err != nil {
		return Row{}, err
	}
	qty, err := strconv.Atoi(rec[3])
	if err != nil || qty <= 0 {
		return Row{}, fmt.Errorf("invalid quantity %q", rec[3])
	}
	price, err := decimal.NewFromString(rec[4])
	if err != nil {
		return Row{}, fmt.Errorf("invalid price %q", rec[4])
	}
	return Row{Email: rec[0], Kind: kind, Name: rec[2], Quantity: qty, Price: price}, nil
}
