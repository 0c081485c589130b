package model

// BusinessCard is the data structure for a person's business card.
// Name, gender, phone and date of birth are required; the pointer fields are optional and nil
// means absent. The Id is assigned by the database, 0 stands for a card that was not stored yet.
type BusinessCard struct {
	Id          int64   `json:"id"          db:"id"`
	Name        string  `json:"name"        db:"name"          validate:"required,max=20"`
	Gender      string  `json:"gender"      db:"gender"        validate:"required,max=10"`
	Phone       string  `json:"phone"       db:"phone"         validate:"required,max=20,phone"`
	DateOfBirth Date    `json:"dateOfBirth" db:"date_of_birth" validate:"required"`
	Email       *string `json:"email"       db:"email"         validate:"omitempty,max=100,email"`
	Address     *string `json:"address"     db:"address"       validate:"omitempty,max=350"`
	PhotoBase64 *string `json:"photoBase64" db:"photo_base64"`
}

// Normalize turns empty optional fields into absent ones.
func (c *BusinessCard) Normalize() {
	c.Email = Optional(Value(c.Email))
	c.Address = Optional(Value(c.Address))
	c.PhotoBase64 = Optional(Value(c.PhotoBase64))
}

// Optional returns a pointer to s, or nil if s is empty. Absent and empty optional values are
// treated the same.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value returns the string behind an optional field, or the empty string if it is absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
