package generator

import (
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
)

// maxEmailAttempts bounds the per-customer retry loop for a unique email.
const maxEmailAttempts = 1000

// Customers generates n customers with ids 1..n, unique emails and a signup
// date inside w.
func Customers(src *Source, n int, w Window) ([]domain.Customer, error) {
	if n <= 0 {
		return nil, &ConfigError{Problems: []string{"customers must be > 0"}}
	}
	customers := make([]domain.Customer, 0, n)
	emails := make(map[string]struct{}, n)
	for i := 1; i <= n; i++ {
		email, err := uniqueEmail(src, emails)
		if err != nil {
			return nil, errors.Wrapf(err, "customer %d", i)
		}
		customers = append(customers, domain.Customer{
			CustomerID: int64(i),
			Email:      email,
			SignupDate: src.Date(w),
			FirstName:  src.FirstName(),
			LastName:   src.LastName(),
		})
	}
	return customers, nil
}

func uniqueEmail(src *Source, seen map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxEmailAttempts; attempt++ {
		email := src.Email()
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		return email, nil
	}
	return "", errors.Wrapf(ErrGeneration, "no unique email after %d attempts", maxEmailAttempts)
}
