package order

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"furniture-store/core/storage"

	"github.com/minio/minio-go/v7"
)

// CSVHeader is the column layout of the orders export.
var CSVHeader = []string{"order_id", "user_email", "shipping_address", "payment_method", "items", "total_price", "status"}

// itemsSummary renders lines as "Oak Chair x 3 ($114.00)" joined by sep.
func itemsSummary(lines []Line, sep string, withPrice bool) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Item.Name + " x " + strconv.Itoa(l.Quantity)
		if withPrice {
			parts[i] += " ($" + l.UnitPrice.StringFixed(2) + ")"
		}
	}
	return strings.Join(parts, sep)
}

// WriteCSV writes orders with CSVHeader as the first row.
func WriteCSV(w io.Writer, orders []*Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{
			o.ID(),
			o.Owner(),
			o.ShippingAddress(),
			o.PaymentMethod(),
			itemsSummary(o.Lines(), "|", true),
			"$" + o.Total().StringFixed(2),
			string(o.Status()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Exporter uploads order exports to object storage.
type Exporter struct {
	client storage.Client
	bucket string
	now    func() time.Time
}

// NewExporter creates an exporter writing to bucket.
func NewExporter(client storage.Client, bucket string) *Exporter {
	return &Exporter{client: client, bucket: bucket, now: time.Now}
}

// Export uploads orders as orders/orders_<unix>.csv and returns the object name.
func (e *Exporter) Export(ctx context.Context, orders []*Order) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, orders); err != nil {
		return "", fmt.Errorf("failed to encode orders: %w", err)
	}
	name := fmt.Sprintf("orders/orders_%d.csv", e.now().Unix())
	_, err := e.client.PutObject(ctx, e.bucket, name, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return name, nil
}
