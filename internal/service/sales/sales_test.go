package sales

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/necohost/pos/internal/config"
	"github.com/necohost/pos/internal/models"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return &Service{DB: db}, db
}

func createSale(t *testing.T, db *gorm.DB, menuID, categoryID uint, price float64, quantity int, date time.Time, process int) {
	sale := models.Sales{
		OrderNum:   1,
		MenuID:     menuID,
		CategoryID: categoryID,
		Price:      price,
		Quantity:   quantity,
		Device:     models.DevicePOS,
		DeviceNum:  models.DevicePOS,
		Date:       date,
		Process:    process,
	}
	require.NoError(t, db.Create(&sale).Error)
}

func TestTotalByDayCountsOnlyConfirmedSales(t *testing.T) {
	svc, db := newService(t)

	day := time.Date(2024, 6, 14, 13, 0, 0, 0, time.Local)
	createSale(t, db, 1, 1, 5000, 2, day, models.ProcessConfirmed)
	createSale(t, db, 1, 1, 5000, 1, day, models.ProcessPending)
	createSale(t, db, 1, 1, 3000, 1, day.AddDate(0, 0, 1), models.ProcessConfirmed)

	total, err := svc.TotalByDay(context.Background(), 2024, time.June, 14)
	require.NoError(t, err)
	require.Equal(t, float64(10000), total)
}

func TestTotalByMonthAndYear(t *testing.T) {
	svc, db := newService(t)

	createSale(t, db, 1, 1, 4500, 1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local), models.ProcessConfirmed)
	createSale(t, db, 1, 1, 4500, 2, time.Date(2024, 6, 20, 18, 0, 0, 0, time.Local), models.ProcessConfirmed)
	createSale(t, db, 1, 1, 4500, 1, time.Date(2024, 7, 1, 10, 0, 0, 0, time.Local), models.ProcessConfirmed)

	month, err := svc.TotalByMonth(context.Background(), 2024, time.June)
	require.NoError(t, err)
	require.Equal(t, float64(13500), month)

	year, err := svc.TotalByYear(context.Background(), 2024)
	require.NoError(t, err)
	require.Equal(t, float64(18000), year)
}

func TestWeeklyByDayGroupsPerDate(t *testing.T) {
	svc, db := newService(t)

	// 2024-06-14 is a Friday; its week runs Sun 06-09 .. Sat 06-15
	createSale(t, db, 1, 1, 5000, 1, time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local), models.ProcessConfirmed)
	createSale(t, db, 1, 1, 5000, 2, time.Date(2024, 6, 14, 12, 0, 0, 0, time.Local), models.ProcessConfirmed)
	createSale(t, db, 1, 1, 5000, 1, time.Date(2024, 6, 16, 12, 0, 0, 0, time.Local), models.ProcessConfirmed)

	weekly, err := svc.WeeklyByDay(context.Background(), 2024, time.June, 14)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{
		"2024-06-10": 5000,
		"2024-06-14": 10000,
	}, weekly)
}

func TestMonthlyTotalsZeroFillsMissingMonths(t *testing.T) {
	svc, db := newService(t)

	year := time.Now().Year()
	createSale(t, db, 1, 1, 5000, 2, time.Date(year, 2, 1, 12, 0, 0, 0, time.Local), models.ProcessConfirmed)

	monthly, err := svc.MonthlyTotals(context.Background())
	require.NoError(t, err)
	require.Equal(t, float64(10000), monthly[fmt.Sprintf("%d-02", year)])
	require.Equal(t, float64(0), monthly[fmt.Sprintf("%d-03", year)])
	require.Len(t, monthly, 12)
}

func TestGrowthRate(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	createSale(t, db, 1, 1, 10000, 1, time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local), models.ProcessConfirmed)
	createSale(t, db, 1, 1, 15000, 1, time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local), models.ProcessConfirmed)

	rate, err := svc.GrowthRate(ctx, 2024, time.June)
	require.NoError(t, err)
	require.InDelta(t, 50.0, rate, 0.001)

	// no sales in the previous month: rate is defined as zero
	rate, err = svc.GrowthRate(ctx, 2024, time.May)
	require.NoError(t, err)
	require.Equal(t, float64(0), rate)
}

func TestTotalsAndQuantitiesByCategory(t *testing.T) {
	svc, db := newService(t)

	require.NoError(t, db.Create(&models.Category{Name: "커피"}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "디저트"}).Error)

	day := time.Date(2024, 6, 14, 12, 0, 0, 0, time.Local)
	createSale(t, db, 1, 1, 4500, 2, day, models.ProcessConfirmed)
	createSale(t, db, 2, 2, 7000, 1, day, models.ProcessConfirmed)
	// category 99 no longer exists and is skipped
	createSale(t, db, 3, 99, 1000, 1, day, models.ProcessConfirmed)

	start := time.Date(2024, 6, 14, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	totals, err := svc.TotalsByCategory(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"커피": 9000, "디저트": 7000}, totals)

	quantities, err := svc.QuantityByCategory(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"커피": 2, "디저트": 1}, quantities)
}

func TestTotalsAndQuantitiesByMenu(t *testing.T) {
	svc, db := newService(t)

	americano := models.Menu{Name: "아메리카노", CategoryID: 1, Price: 4500, Cost: 1500, Stock: 10}
	require.NoError(t, db.Create(&americano).Error)

	day := time.Date(2024, 6, 14, 12, 0, 0, 0, time.Local)
	createSale(t, db, americano.ID, 1, 4500, 3, day, models.ProcessConfirmed)

	start := time.Date(2024, 6, 14, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	totals, err := svc.TotalsByMenu(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"아메리카노": 13500}, totals)

	quantities, err := svc.QuantityByMenu(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"아메리카노": 3}, quantities)
}

func TestMenuSummary(t *testing.T) {
	svc, db := newService(t)

	menu := models.Menu{Name: "아메리카노", CategoryID: 1, Price: 5000, Cost: 2000, Stock: 10}
	require.NoError(t, db.Create(&menu).Error)

	day := time.Date(2024, 6, 14, 12, 0, 0, 0, time.Local)
	createSale(t, db, menu.ID, 1, 5000, 2, day, models.ProcessConfirmed)
	createSale(t, db, menu.ID, 1, 5000, 1, day, models.ProcessConfirmed)
	createSale(t, db, menu.ID, 1, 5000, 4, day, models.ProcessPending)

	summary, err := svc.MenuSummary(context.Background(), menu.ID)
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalQuantity)
	require.Equal(t, float64(15000), summary.TotalAmount)
	require.InDelta(t, 60.0, summary.ProfitRate, 0.001)

	_, err = svc.MenuSummary(context.Background(), 999)
	require.ErrorIs(t, err, ErrMenuNotFound)
}
