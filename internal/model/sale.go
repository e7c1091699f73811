package model

import "time"

type ConsumptionType string

const (
	ConsumptionOnSite   ConsumptionType = "ON_SITE"
	ConsumptionTakeaway ConsumptionType = "TAKEAWAY"
	ConsumptionDelivery ConsumptionType = "DELIVERY"
)

// Label returns the customer-facing name used on receipts and the front-end.
func (t ConsumptionType) Label() string {
	switch t {
	case ConsumptionOnSite:
		return "Consumo no Local"
	case ConsumptionTakeaway:
		return "Retirar"
	case ConsumptionDelivery:
		return "Entregar"
	}
	return string(t)
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentDebit  PaymentMethod = "DEBIT"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentPix    PaymentMethod = "PIX"
)

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Dinheiro"
	case PaymentDebit:
		return "Cartão Débito"
	case PaymentCredit:
		return "Cartão Crédito"
	case PaymentPix:
		return "PIX"
	}
	return string(m)
}

// WalkInCustomer is stored when the cashier leaves the customer name blank.
const WalkInCustomer = "Consumidor"

// SaleItem is one line of a sale. UnitPrice is a snapshot taken when the item
// entered the cart, so later menu price changes never rewrite history.
type SaleItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

// Sale is one completed transaction. TotalValue is derived from Items on every
// save and is never settable by callers.
type Sale struct {
	ID              string          `json:"id" validate:"required"`
	CustomerName    string          `json:"customerName"`
	Date            time.Time       `json:"date"`
	ConsumptionType ConsumptionType `json:"consumptionType" validate:"required,oneof=ON_SITE TAKEAWAY DELIVERY"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" validate:"required,oneof=CASH DEBIT CREDIT PIX"`
	Items           []SaleItem      `json:"items" validate:"required,min=1,dive"`
	TotalValue      float64         `json:"totalValue"`
}

// ItemsTotal sums quantity * unit price over all lines.
func ItemsTotal(items []SaleItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// AddCartItem adds one unit of the product to the cart: an existing line is
// incremented, otherwise a new line is appended with the current price
// snapshotted.
func AddCartItem(items []SaleItem, product Product) []SaleItem {
	for i, item := range items {
		if item.ProductID == product.ID {
			items[i].Quantity++
			return items
		}
	}
	return append(items, SaleItem{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price})
}

// SetCartQuantity sets the line quantity to max(0, qty). A line reaching zero
// is removed; items are never stored at quantity zero.
func SetCartQuantity(items []SaleItem, productID string, qty int) []SaleItem {
	if qty < 0 {
		qty = 0
	}
	out := items[:0]
	for _, item := range items {
		if item.ProductID == productID {
			item.Quantity = qty
		}
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}
