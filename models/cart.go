package models

// Cart is the explicit cart value object. It is keyed by an opaque token, lives in
// Redis with a TTL, and is loaded/saved explicitly by the web layer; checkout takes
// its items as plain input and never touches session storage.
type Cart struct {
	Token string     `json:"token"`
	Items []CartItem `json:"items"`
}

// CartItem is one product line inside a cart.
type CartItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// SetItem adds or replaces the line for a product. A non-positive quantity removes
// the line.
func (c *Cart) SetItem(productID uint, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return
		}
	}
	if quantity > 0 {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	}
}

// Remove deletes the line for a product if present.
func (c *Cart) Remove(productID uint) {
	c.SetItem(productID, 0)
}
