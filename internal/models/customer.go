package models

import "time"

// Customer is an entry in the customer directory. Recurring customers get a
// personalized greeting; the access level gates administrative commands.
type Customer struct {
	Phone   string `json:"phone" gorm:"primaryKey"` // normalized, digits only
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Level   int    `json:"level"` // 0 = guest, 5 = full admin
	Active  bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GuestCustomer is the fallback identity for phones not in the directory
func GuestCustomer(phone string) *Customer {
	return &Customer{
		Phone:   phone,
		Name:    "Convidado",
		Company: "N/A",
		Level:   0,
		Active:  true,
	}
}

// FirstName returns the customer's first name for salutations
func (c *Customer) FirstName() string {
	if c == nil || c.Name == "" || c.Name == "Convidado" {
		return ""
	}
	for i, r := range c.Name {
		if r == ' ' {
			return c.Name[:i]
		}
	}
	return c.Name
}
