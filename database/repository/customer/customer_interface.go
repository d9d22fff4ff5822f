package customerRepo

import (
	"reserva/models"
)

// CustomerRepository defines read access to customer records. Creation and
// stat counters are handled inside reservation transactions.
type CustomerRepository interface {
	// GetByID retrieves a customer by its derived ID, or nil if unknown.
	GetByID(id string) (*models.Customer, error)
	// ListAll retrieves up to limit customers, newest first.
	ListAll(limit int) ([]models.Customer, error)
	// ListMarketingOptIn retrieves customers who opted into broadcasts.
	ListMarketingOptIn(limit int) ([]models.Customer, error)
	// ListBirthdays retrieves customers whose birthday falls on the given
	// "MM-DD" month-day.
	ListBirthdays(monthDay string, limit int) ([]models.Customer, error)
}
