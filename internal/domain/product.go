package domain

// Product is a catalog entry. Price is in main currency units and always > 0.
type Product struct {
	ProductID int64   `gorm:"column:product_id;primaryKey;autoIncrement:false" json:"product_id" csv:"product_id" validate:"gt=0"`
	Name      string  `gorm:"column:name;size:200;not null;index" json:"name" csv:"name" validate:"required"`
	Category  string  `gorm:"column:category;size:32;not null;index" json:"category" csv:"category" validate:"required,category"`
	Price     float64 `gorm:"column:price;not null;check:chk_products_price,price > 0" json:"price" csv:"price" validate:"gt=0"`

	OrderItems []OrderItem `gorm:"foreignKey:ProductID;references:ProductID" json:"-" csv:"-" validate:"-"`
}

// TableName Specify table name
func (Product) TableName() string {
	return TableProducts
}

// Categories is the closed set of product categories.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Books",
	"Sports",
	"Beauty",
	"Toys",
	"Automotive",
	"Jewelry",
	"Health",
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}
