package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"fuelpay-terminal/internal/models"
	"fuelpay-terminal/internal/timeutil"
)

// ReceiptService renders a printable PDF receipt for a completed transaction
type ReceiptService struct {
	outDir string
}

// NewReceiptService creates a receipt service writing into outDir
func NewReceiptService(outDir string) *ReceiptService {
	return &ReceiptService{outDir: outDir}
}

// GenerateReceiptPDF renders the receipt for a payment record
func (s *ReceiptService) GenerateReceiptPDF(p *models.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(128, 10, "Fuel Purchase Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	station := p.StationName
	if station == "" {
		station = "Fuel Station"
	}
	pdf.CellFormat(128, 6, station, "", 1, "C", false, 0, "")
	pdf.CellFormat(128, 6, fmt.Sprintf("Generated: %s", timeutil.FormatWAT(timeutil.Now(), timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Transaction box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(128, 8, "Transaction", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Reference", p.Ref},
		{"Customer", fmt.Sprintf("%s %s", p.FirstName, p.LastName)},
		{"Mobile", p.Mobile},
		{"Amount", "NGN " + p.Amount},
		{"Product", productLine(p)},
		{"Status", p.Status},
		{"Date", formatCreatedAt(p.CreatedAt)},
	}
	if p.FuelRate != nil {
		rows = append(rows, [2]string{"Rate", fmt.Sprintf("NGN %.2f / litre", *p.FuelRate)})
	}
	if q := p.Quantity.String(); q != "" && q != "0" {
		rows = append(rows, [2]string{"Quantity", q + " litres"})
	}
	for _, row := range rows {
		pdf.CellFormat(40, 7, row[0], "LB", 0, "L", false, 0, "")
		pdf.CellFormat(88, 7, row[1], "RB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(128, 6, "Thank you for your purchase.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveReceipt renders and writes the receipt, returning the file path
func (s *ReceiptService) SaveReceipt(p *models.Payment) (string, error) {
	data, err := s.GenerateReceiptPDF(p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}

	name := fmt.Sprintf("receipt-%s.pdf", p.Ref)
	if p.Ref == "" {
		name = fmt.Sprintf("receipt-%d.pdf", timeutil.Now().Unix())
	}
	path := filepath.Join(s.outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

func productLine(p *models.Payment) string {
	if p.ProductType != "" && p.ProductType != p.Product {
		return fmt.Sprintf("%s (%s)", p.Product, p.ProductType)
	}
	return p.Product
}

func formatCreatedAt(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return timeutil.FormatWAT(t, timeutil.DisplayLayout)
}
