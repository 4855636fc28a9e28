package order

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/necohost/pos/internal/models"
)

var pricePrinter = message.NewPrinter(language.Korean)

// Receipt renders the confirmation message pushed to the notification
// channel. The layout is fixed; display clients parse it as-is.
func Receipt(d orderDetail) string {
	formattedPrice := pricePrinter.Sprintf("%d", int64(d.Price)*int64(d.Quantity))

	var b strings.Builder
	fmt.Fprintf(&b, "주문 번호 %d이/가 승인되었습니다.\n", d.OrderNum)
	b.WriteString("===================================\n")
	fmt.Fprintf(&b, "            주문번호 %d\n", d.OrderNum)
	b.WriteString("===================================\n")
	fmt.Fprintf(&b, "주문 기기 %s\t수량\t\t가격\n", d.DeviceName)
	if d.Device == models.DeviceTable {
		fmt.Fprintf(&b, "테이블 번호 %d\n", d.DeviceNum)
	}
	b.WriteString("-----------------------------------\n")
	b.WriteString("주문 메뉴\n")
	fmt.Fprintf(&b, "%s\t%d개\t\t%s원\n", d.MenuName, d.Quantity, formattedPrice)
	b.WriteString("-----------------------------------\n")
	fmt.Fprintf(&b, "주문 시간 %s\n", d.Date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "총 가격 %s원\n", formattedPrice)
	b.WriteString("===================================")
	return b.String()
}
