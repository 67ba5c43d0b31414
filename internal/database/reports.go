package database

import (
	"time"

	"stationery-admin/internal/models"
)

// IssueReportResult summarizes issuance within a date range. The AI
// assistant and the reports endpoint both read from here.
type IssueReportResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetIssueReport calculates revenue and transaction count within a date range
func GetIssueReport(start, end time.Time) (*IssueReportResult, error) {
	var result IssueReportResult

	// COALESCE ensures we get 0 instead of NULL when no transactions exist
	err := DB.Model(&models.Transaction{}).
		Where("transaction_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Transaction{}).
		Where("transaction_date BETWEEN ? AND ?", start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetLowStockProducts lists non-set products at or below their low stock
// threshold. Sets are excluded - their availability derives from components.
func GetLowStockProducts() ([]models.Product, error) {
	var products []models.Product
	err := DB.Where("is_set = ? AND stock <= low_stock_threshold", false).
		Order("stock asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
