package model

import "time"

type OrderStatus string

const (
	StatusProcessing     OrderStatus = "processing"
	StatusShipped        OrderStatus = "shipped"
	StatusOutForDelivery OrderStatus = "out of delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order, which is also the
// order of the tabs in the order list.
var OrderStatuses = []OrderStatus{
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

const (
	PaymentMethodCOD       = "cod"
	PaymentStatusCompleted = "completed"
)

type Order struct {
	BaseModel
	User             *OrderUser                `json:"user,omitempty"`
	PersonalInfo     PersonalInfo              `json:"personalInfo"`
	ShippingInfo     ShippingInfo              `json:"shippingInfo"`
	OrderItems       []OrderItem               `json:"orderItems"`
	PriceSummary     PriceSummary              `json:"priceSummary"`
	PaymentInfo      PaymentInfo               `json:"paymentInfo"`
	IsPaid           bool                      `json:"isPaid"`
	IsDelivered      bool                      `json:"isDelivered"`
	OrderStatus      OrderStatus               `json:"orderStatus"`
	StatusTimestamps map[OrderStatus]time.Time `json:"statusTimestamps,omitempty"`
	CancelReason     string                    `json:"cancelReason,omitempty"`
}

type OrderUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type OrderItem struct {
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
}

type PriceSummary struct {
	Subtotal     float64 `json:"subtotal"`
	Savings      float64 `json:"savings"`
	ShippingCost float64 `json:"shippingCost"`
	Total        float64 `json:"total"`
}

type PaymentInfo struct {
	Method string     `json:"method"`
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paidAt,omitempty"`
}

// CustomerName prefers the linked account name over the checkout form.
func (o *Order) CustomerName() string {
	if o.User != nil && o.User.Name != "" {
		return o.User.Name
	}
	return o.PersonalInfo.FirstName + " " + o.PersonalInfo.LastName
}
