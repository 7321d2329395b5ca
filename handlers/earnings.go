package handlers

import (
	"fmt"
	"net/http"

	"gas-delivery-api/config"
	"gas-delivery-api/middleware"
	"gas-delivery-api/models"
	"gas-delivery-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// GetEarnings lists the driver's earnings, newest first, with a running total
func GetEarnings(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	query := config.DB.Where("driver_id = ?", driverID)
	if period := c.Query("period"); period != "" {
		query = query.Where("period = ?", period)
	}

	var earnings []models.DriverEarning
	query.Order("created_at desc").Find(&earnings)

	var total float64
	for _, e := range earnings {
		total += e.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(earnings),
		"total":    total,
		"earnings": earnings,
	})
}

// ExportEarnings generates an xlsx statement the driver can download
func ExportEarnings(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var earnings []models.DriverEarning
	config.DB.Where("driver_id = ?", driverID).
		Order("created_at desc").
		Find(&earnings)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Earnings"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Date", "Order ID", "Period", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	var total float64
	for row, e := range earnings {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), validation.FormatDate(e.CreatedAt))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), e.OrderID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row+2), string(e.Period))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row+2), e.Amount)
		total += e.Amount
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", len(earnings)+3), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", len(earnings)+3), validation.FormatCurrency(total))

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate statement"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="earnings.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
