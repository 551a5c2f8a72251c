package domain

const (
	TableCustomers  = "customers"
	TableProducts   = "products"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
	TablePayments   = "payments"
)

// TableNames lists the dataset tables parents first; it is the load order.
var TableNames = []string{
	TableCustomers,
	TableProducts,
	TableOrders,
	TableOrderItems,
	TablePayments,
}

var Tables = []interface{}{
	&Customer{},
	&Product{},
	&Order{},
	&OrderItem{},
	&Payment{},
}
