package domain

// Registration is one completed form: agency name, contact and Telegram ID
type Registration struct {
	Name    string
	Contact string
	UserID  int64
}

// Row returns the values in sheet column order
func (r Registration) Row() []interface{} {
	return []interface{}{r.Name, r.Contact, r.UserID}
}
