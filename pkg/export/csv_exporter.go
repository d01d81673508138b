package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/payorbit/wallet-panel-api/internal/models"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// TransactionDataset flattens a ledger into the export table shape shared by
// the CSV and PDF renderers.
func TransactionDataset(transactions []models.Transaction) Dataset {
	headers := []string{"Transaction ID", "Amount", "Type", "Service", "Status", "Remarks"}
	rows := make([]map[string]string, 0, len(transactions))
	for _, t := range transactions {
		amount := t.Amount
		if t.Type == models.TransactionDebit && amount != "" {
			amount = "-" + amount
		}
		rows = append(rows, map[string]string{
			"Transaction ID": t.TransactionID,
			"Amount":         amount,
			"Type":           t.Type,
			"Service":        t.Service,
			"Status":         t.Status,
			"Remarks":        t.Remarks,
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
