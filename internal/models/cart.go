package models

// CartItem is a single line in a customer's shopping cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds a product to the customer's cart, merging the quantity into
// an existing line for the same product. Quantity must be positive.
func (c *Customer) AddToCart(productID string, quantity int) error {
	if productID == "" {
		return &ValidationError{Field: "product_id", Reason: "cannot be empty"}
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive to add to cart"}
	}
	for i := range c.Cart {
		if c.Cart[i].ProductID == productID {
			c.Cart[i].Quantity += quantity
			return nil
		}
	}
	c.Cart = append(c.Cart, CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

// RemoveFromCart removes the cart line for a product, if present.
func (c *Customer) RemoveFromCart(productID string) {
	for i := range c.Cart {
		if c.Cart[i].ProductID == productID {
			c.Cart = append(c.Cart[:i], c.Cart[i+1:]...)
			return
		}
	}
}

// ClearCart empties the customer's cart.
func (c *Customer) ClearCart() {
	c.Cart = nil
}
