package user

// SetPasswordCost lowers the bcrypt cost so tests stay fast.
func SetPasswordCost(s *Service, cost int) {
	s.cost = cost
}
