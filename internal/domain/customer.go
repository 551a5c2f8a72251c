package domain

// Customer is a shopper account. Ids are dense 1..N within a run.
type Customer struct {
	CustomerID int64  `gorm:"column:customer_id;primaryKey;autoIncrement:false" json:"customer_id" csv:"customer_id" validate:"gt=0"`
	FirstName  string `gorm:"column:first_name;size:100;not null" json:"first_name" csv:"first_name" validate:"required"`
	LastName   string `gorm:"column:last_name;size:100;not null" json:"last_name" csv:"last_name" validate:"required"`
	Email      string `gorm:"column:email;size:255;not null;uniqueIndex" json:"email" csv:"email" validate:"required,email"`
	SignupDate Date   `gorm:"column:signup_date;type:date;not null" json:"signup_date" csv:"signup_date"`

	Orders []Order `gorm:"foreignKey:CustomerID;references:CustomerID" json:"-" csv:"-" validate:"-"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return TableCustomers
}
