package domain

const (
	PaymentCard   = "card"
	PaymentPaypal = "paypal"
	PaymentBank   = "bank"
)

// PaymentMethods is the closed set of payment methods.
var PaymentMethods = []string{PaymentCard, PaymentPaypal, PaymentBank}

func IsPaymentMethod(s string) bool {
	for _, m := range PaymentMethods {
		if m == s {
			return true
		}
	}
	return false
}

// Payment settles exactly one order. Amount mirrors the order's finalized total.
type Payment struct {
	PaymentID     int64   `gorm:"column:payment_id;primaryKey;autoIncrement:false" json:"payment_id" csv:"payment_id" validate:"gt=0"`
	OrderID       int64   `gorm:"column:order_id;not null;uniqueIndex" json:"order_id" csv:"order_id" validate:"gt=0"`
	PaymentMethod string  `gorm:"column:payment_method;size:16;not null;check:chk_payments_method,payment_method IN ('card','paypal','bank')" json:"payment_method" csv:"payment_method" validate:"required,payment_method"`
	Amount        float64 `gorm:"column:amount;not null;check:chk_payments_amount,amount >= 0" json:"amount" csv:"amount" validate:"gte=0"`
	PaymentDate   Date    `gorm:"column:payment_date;type:date;not null" json:"payment_date" csv:"payment_date"`
}

// TableName Specify table name
func (Payment) TableName() string {
	return TablePayments
}
