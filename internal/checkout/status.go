package checkout

import "github.com/chococraft/chococraft/internal/domain"

// statusGraph is the only set of legal order status transitions.
// Delivered and Rejected are terminal.
var statusGraph = map[string][]string{
	domain.OrderStatusPending:    {domain.OrderStatusProcessing, domain.OrderStatusRejected},
	domain.OrderStatusProcessing: {domain.OrderStatusShipped, domain.OrderStatusRejected},
	domain.OrderStatusShipped:    {domain.OrderStatusDelivered},
	domain.OrderStatusDelivered:  {},
	domain.OrderStatusRejected:   {},
}

// ValidStatus reports whether s is a member of the order status enum.
func ValidStatus(s string) bool {
	_, ok := statusGraph[s]
	return ok
}

// CanTransition reports whether an order may move from to next.
func CanTransition(from, next string) bool {
	for _, s := range statusGraph[from] {
		if s == next {
			return true
		}
	}
	return false
}
