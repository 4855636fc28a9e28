package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/necohost/pos/internal/models"
)

var ErrMenuNotFound = errors.New("menu not found")

// Service aggregates confirmed sales rows into the admin reports.
type Service struct {
	DB *gorm.DB
}

func (s *Service) salesBetween(ctx context.Context, start, end time.Time) ([]models.Sales, error) {
	var rows []models.Sales
	err := s.DB.WithContext(ctx).
		Where("process = ? AND date >= ? AND date < ?", models.ProcessConfirmed, start, end).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load sales range: %w", err)
	}
	return rows, nil
}

func sum(rows []models.Sales) float64 {
	var total float64
	for _, r := range rows {
		total += r.Price * float64(r.Quantity)
	}
	return total
}

func (s *Service) TotalByDay(ctx context.Context, year int, month time.Month, day int) (float64, error) {
	start := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	rows, err := s.salesBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}
	return sum(rows), nil
}

func (s *Service) TotalByMonth(ctx context.Context, year int, month time.Month) (float64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	rows, err := s.salesBetween(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return 0, err
	}
	return sum(rows), nil
}

func (s *Service) TotalByYear(ctx context.Context, year int) (float64, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	rows, err := s.salesBetween(ctx, start, start.AddDate(1, 0, 0))
	if err != nil {
		return 0, err
	}
	return sum(rows), nil
}

// WeeklyByDay returns per-day totals for the Sunday-to-Saturday week
// containing the given date, keyed by "2006-01-02".
func (s *Service) WeeklyByDay(ctx context.Context, year int, month time.Month, day int) (map[string]float64, error) {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	start := date.AddDate(0, 0, -int(date.Weekday()))
	rows, err := s.salesBetween(ctx, start, start.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	weekly := make(map[string]float64)
	for _, r := range rows {
		key := r.Date.Format("2006-01-02")
		weekly[key] += r.Price * float64(r.Quantity)
	}
	return weekly, nil
}

// MonthlyTotals returns "YYYY-MM" totals from the first confirmed sale
// through the current year, zero-filling months without sales.
func (s *Service) MonthlyTotals(ctx context.Context) (map[string]float64, error) {
	var first models.Sales
	err := s.DB.WithContext(ctx).
		Where("process = ?", models.ProcessConfirmed).
		Order("date").
		First(&first).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]float64{}, nil
		}
		return nil, fmt.Errorf("load first sale: %w", err)
	}

	monthly := make(map[string]float64)
	currentYear := time.Now().Year()
	for year := first.Date.Year(); year <= currentYear; year++ {
		for month := 1; month <= 12; month++ {
			monthly[fmt.Sprintf("%d-%02d", year, month)] = 0
		}
	}

	var rows []models.Sales
	if err := s.DB.WithContext(ctx).
		Where("process = ?", models.ProcessConfirmed).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	for _, r := range rows {
		key := fmt.Sprintf("%d-%02d", r.Date.Year(), int(r.Date.Month()))
		monthly[key] += r.Price * float64(r.Quantity)
	}
	return monthly, nil
}

// GrowthRate is the month-over-month revenue change in percent. A zero
// previous month yields 0.
func (s *Service) GrowthRate(ctx context.Context, year int, month time.Month) (float64, error) {
	current, err := s.TotalByMonth(ctx, year, month)
	if err != nil {
		return 0, err
	}

	prevYear, prevMonth := year, month-1
	if month == time.January {
		prevYear, prevMonth = year-1, time.December
	}
	previous, err := s.TotalByMonth(ctx, prevYear, prevMonth)
	if err != nil {
		return 0, err
	}

	if previous == 0 {
		return 0, nil
	}
	return (current - previous) / previous * 100, nil
}

func (s *Service) categoryNames(ctx context.Context) (map[uint]string, error) {
	var categories []models.Category
	if err := s.DB.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Service) menuNames(ctx context.Context) (map[uint]string, error) {
	var menus []models.Menu
	if err := s.DB.WithContext(ctx).Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}
	names := make(map[uint]string, len(menus))
	for _, m := range menus {
		names[m.ID] = m.Name
	}
	return names, nil
}

// TotalsByCategory groups revenue in [start, end) by category name.
// Rows whose category no longer exists are skipped.
func (s *Service) TotalsByCategory(ctx context.Context, start, end time.Time) (map[string]float64, error) {
	rows, err := s.salesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, r := range rows {
		if name, ok := names[r.CategoryID]; ok {
			totals[name] += r.Price * float64(r.Quantity)
		}
	}
	return totals, nil
}

func (s *Service) QuantityByCategory(ctx context.Context, start, end time.Time) (map[string]int, error) {
	rows, err := s.salesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	quantities := make(map[string]int)
	for _, r := range rows {
		if name, ok := names[r.CategoryID]; ok {
			quantities[name] += r.Quantity
		}
	}
	return quantities, nil
}

func (s *Service) TotalsByMenu(ctx context.Context, start, end time.Time) (map[string]float64, error) {
	rows, err := s.salesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	names, err := s.menuNames(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, r := range rows {
		if name, ok := names[r.MenuID]; ok {
			totals[name] += r.Price * float64(r.Quantity)
		}
	}
	return totals, nil
}

func (s *Service) QuantityByMenu(ctx context.Context, start, end time.Time) (map[string]int, error) {
	rows, err := s.salesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	names, err := s.menuNames(ctx)
	if err != nil {
		return nil, err
	}

	quantities := make(map[string]int)
	for _, r := range rows {
		if name, ok := names[r.MenuID]; ok {
			quantities[name] += r.Quantity
		}
	}
	return quantities, nil
}

type MenuSummary struct {
	Menu          models.Menu `json:"menu"`
	TotalQuantity int         `json:"total_quantity"`
	TotalAmount   float64     `json:"total_amount"`
	ProfitRate    float64     `json:"profit_rate"`
}

// MenuSummary reports lifetime confirmed quantity, revenue and the
// price/cost margin for one menu.
func (s *Service) MenuSummary(ctx context.Context, menuID uint) (MenuSummary, error) {
	var menu models.Menu
	if err := s.DB.WithContext(ctx).First(&menu, menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MenuSummary{}, fmt.Errorf("menu %d: %w", menuID, ErrMenuNotFound)
		}
		return MenuSummary{}, fmt.Errorf("load menu %d: %w", menuID, err)
	}

	var rows []models.Sales
	if err := s.DB.WithContext(ctx).
		Where("menu_id = ? AND process = ?", menuID, models.ProcessConfirmed).
		Find(&rows).Error; err != nil {
		return MenuSummary{}, fmt.Errorf("load menu sales: %w", err)
	}

	summary := MenuSummary{Menu: menu}
	for _, r := range rows {
		summary.TotalQuantity += r.Quantity
		summary.TotalAmount += r.Price * float64(r.Quantity)
	}
	if menu.Price != 0 {
		summary.ProfitRate = 100 * (menu.Price - menu.Cost) / menu.Price
	}
	return summary, nil
}
