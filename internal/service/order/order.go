package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/necohost/pos/internal/hub"
	"github.com/necohost/pos/internal/logging"
	"github.com/necohost/pos/internal/models"
	"github.com/necohost/pos/internal/notify"
)

var (
	ErrMenuNotFound      = errors.New("menu not found")
	ErrOrderLineNotFound = errors.New("order line not found")
)

// NewOrderMessage is the literal payload pushed to display clients when
// an order batch lands.
const NewOrderMessage = "새로운 주문이 들어왔습니다"

type Line struct {
	MenuID   uint `json:"id"`
	Quantity int  `json:"quantity"`
}

type Service struct {
	DB       *gorm.DB
	Hub      *hub.Hub
	Notifier *notify.Notifier
}

// NextOrderNumber allocates a fresh order number. The number is the
// auto-incremented key of an order_nums row, so concurrent submissions
// are serialized by the store.
func (s *Service) NextOrderNumber(ctx context.Context) (uint, error) {
	num := models.OrderNum{}
	if err := s.DB.WithContext(ctx).Create(&num).Error; err != nil {
		return 0, fmt.Errorf("allocate order number: %w", err)
	}
	return num.ID, nil
}

// SubmitOrder persists one pending sales row per line under a shared
// order number and decrements menu stock per line. Lines are written
// one by one: when line N fails, lines 1..N-1 stay committed.
func (s *Service) SubmitOrder(ctx context.Context, lines []Line) (uint, error) {
	l := logging.FromContext(ctx).With("service", "order_submit")

	orderNum, err := s.NextOrderNumber(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for _, line := range lines {
		var menu models.Menu
		if err := s.DB.WithContext(ctx).First(&menu, line.MenuID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("menu %d: %w", line.MenuID, ErrMenuNotFound)
			}
			return 0, fmt.Errorf("load menu %d: %w", line.MenuID, err)
		}

		sale := models.Sales{
			OrderNum:   orderNum,
			MenuID:     menu.ID,
			CategoryID: menu.CategoryID,
			Price:      menu.Price,
			Quantity:   line.Quantity,
			Device:     models.DevicePOS,
			DeviceNum:  models.DevicePOS,
			Date:       now,
			Process:    models.ProcessPending,
		}
		if err := s.DB.WithContext(ctx).Create(&sale).Error; err != nil {
			return 0, fmt.Errorf("persist order line: %w", err)
		}

		if err := s.decrementStock(ctx, menu.ID, line.Quantity); err != nil {
			return 0, err
		}
	}

	s.Hub.Broadcast(NewOrderMessage)

	l.Info("order_submitted", "order_num", orderNum, "lines", len(lines))
	return orderNum, nil
}

// orderDetail is the sales row joined with its device and menu names.
type orderDetail struct {
	ID         uint
	OrderNum   uint
	Price      float64
	Quantity   int
	Device     int
	DeviceNum  int
	Date       time.Time
	DeviceName string
	MenuName   string
}

// ConfirmOrder transitions a pending line to confirmed, decrements the
// menu stock by the confirmed quantity and pushes a receipt message to
// the notification channel. A line that is absent or already confirmed
// fails with ErrOrderLineNotFound.
func (s *Service) ConfirmOrder(ctx context.Context, lineID, menuID uint, quantity int) error {
	l := logging.FromContext(ctx).With("service", "order_confirm")

	var detail orderDetail
	err := s.DB.WithContext(ctx).
		Table("sales").
		Select("sales.id, sales.order_num, sales.price, sales.quantity, sales.device, sales.device_num, sales.date, devices.name AS device_name, menus.name AS menu_name").
		Joins("JOIN devices ON devices.id = sales.device").
		Joins("JOIN menus ON menus.id = sales.menu_id").
		Where("sales.id = ? AND sales.process = ?", lineID, models.ProcessPending).
		Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("line %d: %w", lineID, ErrOrderLineNotFound)
		}
		return fmt.Errorf("load order line %d: %w", lineID, err)
	}

	if err := s.DB.WithContext(ctx).
		Model(&models.Sales{}).
		Where("id = ?", lineID).
		Update("process", models.ProcessConfirmed).Error; err != nil {
		return fmt.Errorf("confirm order line %d: %w", lineID, err)
	}

	if err := s.decrementStock(ctx, menuID, quantity); err != nil {
		return err
	}

	// Receipt goes out only after the state is committed; delivery is
	// best-effort and never rolls the transition back.
	s.Notifier.Send(ctx, Receipt(detail))

	l.Info("order_confirmed", "order_num", detail.OrderNum, "line_id", lineID)
	return nil
}

func (s *Service) decrementStock(ctx context.Context, menuID uint, quantity int) error {
	if err := s.DB.WithContext(ctx).
		Model(&models.Menu{}).
		Where("id = ?", menuID).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity)).Error; err != nil {
		return fmt.Errorf("decrement stock for menu %d: %w", menuID, err)
	}
	return nil
}

// PendingOrderNums lists the distinct order numbers still pending on the
// given date.
func (s *Service) PendingOrderNums(ctx context.Context, date time.Time) ([]int, error) {
	var nums []int
	err := s.DB.WithContext(ctx).
		Model(&models.Sales{}).
		Distinct("order_num").
		Where("process = ? AND date(date) = ?", models.ProcessPending, date.Format("2006-01-02")).
		Order("order_num").
		Pluck("order_num", &nums).Error
	if err != nil {
		return nil, fmt.Errorf("list pending order numbers: %w", err)
	}
	return nums, nil
}

// OrdersByNumAndDate returns every line of one order batch on a date.
func (s *Service) OrdersByNumAndDate(ctx context.Context, orderNum uint, date time.Time) ([]models.Sales, error) {
	var sales []models.Sales
	err := s.DB.WithContext(ctx).
		Where("order_num = ? AND date(date) = ?", orderNum, date.Format("2006-01-02")).
		Order("id").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("list order %d: %w", orderNum, err)
	}
	return sales, nil
}

// PendingOrderDates lists the distinct dates that still carry pending
// lines, oldest first.
func (s *Service) PendingOrderDates(ctx context.Context) ([]string, error) {
	var dates []string
	err := s.DB.WithContext(ctx).
		Model(&models.Sales{}).
		Distinct("date(date)").
		Where("process = ?", models.ProcessPending).
		Order("date(date)").
		Pluck("date(date)", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("list pending dates: %w", err)
	}
	return dates, nil
}
