package account

import "github.com/amirasaad/eaglebank/pkg/domain/account"

// SetNumberGenerator replaces the account number generator of s.
func SetNumberGenerator(s *Service, gen func() account.Number) {
	s.newNumber = gen
}
