package secret

// SetHashCost lowers the bcrypt cost so tests stay fast.
func (svc *Service) SetHashCost(cost int) {
	svc.hashCost = cost
}
