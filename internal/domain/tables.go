package domain

var Tables = []interface{}{
	// Accounts
	&User{},
	&AdminLog{},
	// Catalog
	&Product{},
	&Category{},
	&SpecialCategory{},
	// Shopping
	&CartItem{},
	&Favorite{},
	&Order{},
	&OrderItem{},
	&CheckoutToken{},
	// Content
	&Notification{},
	&Banner{},
	&Update{},
	&AboutUs{},
	&ContactInfo{},
	&ContactMessage{},
}
