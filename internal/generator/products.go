package generator

import (
	"math"

	"github.com/talkincode/shopgen/internal/domain"
)

const (
	// price ~ LogNormal(priceMu, priceSigma) in log space
	priceMu    = 3.0
	priceSigma = 1.0
	minPrice   = 0.01
)

// Products generates n products with ids 1..n. Prices are heavy tailed and
// never below minPrice.
func Products(src *Source, n int) ([]domain.Product, error) {
	if n <= 0 {
		return nil, &ConfigError{Problems: []string{"products must be > 0"}}
	}
	products := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		price := math.Max(minPrice, domain.Round2(src.LogNormal(priceMu, priceSigma)))
		products = append(products, domain.Product{
			ProductID: int64(i),
			Price:     price,
			Category:  src.Pick(domain.Categories),
			Name:      src.Title() + " " + src.Title(),
		})
	}
	return products, nil
}
