package service

import (
	"context"
	"fmt"
	"time"

	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/stock"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService builds spreadsheet exports for the Reports page.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

var inventoryReportHeaders = []string{
	"SKU", "Name", "Quantity", "Reorder Level", "Stock Status",
	"Unit Cost", "Unit Price", "Stock Value", "Location",
}

var orderReportHeaders = []string{
	"Order Number", "Supplier", "Status", "Order Date",
	"Expected Date", "Received Date", "Items", "Total Amount",
}

// ExportInventory writes every product with its stock status and value.
func (s *ReportService) ExportInventory(ctx context.Context) (*excelize.File, string, error) {
	var products []entity.Product
	if err := s.db.WithContext(ctx).Order("sku ASC").Find(&products).Error; err != nil {
		return nil, "", fmt.Errorf("list products: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Inventory"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range inventoryReportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	var totalValue float64
	for rowIdx, p := range products {
		row := rowIdx + 2
		value := float64(p.Quantity) * p.Cost
		totalValue += value

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.SKU)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.ReorderLevel)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(stock.Evaluate(p.Quantity, p.ReorderLevel)))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.Cost)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), p.Price)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), value)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), p.Location)
	}

	summaryRow := len(products) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("%d products", len(products)))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), totalValue)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("I%d", summaryRow), summaryStyle)

	colWidths := []float64{14, 30, 10, 12, 14, 10, 10, 12, 16}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// ExportOrders writes every purchase order with supplier and totals.
func (s *ReportService) ExportOrders(ctx context.Context) (*excelize.File, string, error) {
	var orders []entity.PurchaseOrder
	err := s.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, "", fmt.Errorf("list orders: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Purchase Orders"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range orderReportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	dateOrEmpty := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	var totalAmount float64
	for rowIdx, o := range orders {
		row := rowIdx + 2
		totalAmount += o.TotalAmount

		supplierName := ""
		if o.Supplier != nil {
			supplierName = o.Supplier.Name
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), o.OrderNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), supplierName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), string(o.Status))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.OrderDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), dateOrEmpty(o.ExpectedDate))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), dateOrEmpty(o.ReceivedDate))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), len(o.Items))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), o.TotalAmount)
	}

	summaryRow := len(orders) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("%d orders", len(orders)))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), totalAmount)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	colWidths := []float64{16, 28, 12, 12, 14, 14, 8, 14}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("purchase_orders_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
