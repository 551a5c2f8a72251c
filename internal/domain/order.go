package domain

// Order is an order header. TotalAmount is 0 until the order items are allocated.
type Order struct {
	OrderID     int64   `gorm:"column:order_id;primaryKey;autoIncrement:false" json:"order_id" csv:"order_id" validate:"gt=0"`
	CustomerID  int64   `gorm:"column:customer_id;not null;index" json:"customer_id" csv:"customer_id" validate:"gt=0"`
	OrderDate   Date    `gorm:"column:order_date;type:date;not null;index" json:"order_date" csv:"order_date"`
	TotalAmount float64 `gorm:"column:total_amount;not null;default:0;check:chk_orders_total_amount,total_amount >= 0" json:"total_amount" csv:"total_amount" validate:"gte=0"`

	Items   []OrderItem `gorm:"foreignKey:OrderID;references:OrderID" json:"-" csv:"-" validate:"-"`
	Payment *Payment    `gorm:"foreignKey:OrderID;references:OrderID" json:"-" csv:"-" validate:"-"`
}

// TableName Specify table name
func (Order) TableName() string {
	return TableOrders
}

// OrderItem is one product line of an order. LineTotal = round2(Quantity * Price).
type OrderItem struct {
	OrderItemID int64   `gorm:"column:order_item_id;primaryKey;autoIncrement:false" json:"order_item_id" csv:"order_item_id" validate:"gt=0"`
	OrderID     int64   `gorm:"column:order_id;not null;index" json:"order_id" csv:"order_id" validate:"gt=0"`
	ProductID   int64   `gorm:"column:product_id;not null;index" json:"product_id" csv:"product_id" validate:"gt=0"`
	Quantity    int     `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity > 0" json:"quantity" csv:"quantity" validate:"gt=0"`
	LineTotal   float64 `gorm:"column:line_total;not null;check:chk_order_items_line_total,line_total >= 0" json:"line_total" csv:"line_total" validate:"gte=0"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return TableOrderItems
}
