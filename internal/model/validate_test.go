package model

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func validCard() BusinessCard {
	return BusinessCard{
		Name:        "Alice",
		Gender:      "Female",
		Phone:       "+1 (555) 010-0100",
		DateOfBirth: NewDate(1990, time.January, 1),
		Email:       Optional("alice@example.com"),
		Address:     Optional("1 Main St"),
	}
}

func TestValidateAcceptsValidCard(t *testing.T) {
	card := validCard()
	assert.Nil(t, Validate(&card))

	card.Email = nil
	card.Address = nil
	assert.Nil(t, Validate(&card))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*BusinessCard)
		want   []FieldError
	}{
		{
			name:   "missing name",
			modify: func(c *BusinessCard) { c.Name = "" },
			want:   []FieldError{{Field: "name", Message: "The name field is required."}},
		},
		{
			name:   "name too long",
			modify: func(c *BusinessCard) { c.Name = strings.Repeat("x", 21) },
			want:   []FieldError{{Field: "name", Message: "The name field must not be longer than 20 characters."}},
		},
		{
			name:   "gender too long",
			modify: func(c *BusinessCard) { c.Gender = "Nonbinary!!" },
			want:   []FieldError{{Field: "gender", Message: "The gender field must not be longer than 10 characters."}},
		},
		{
			name:   "invalid phone",
			modify: func(c *BusinessCard) { c.Phone = "call me maybe" },
			want:   []FieldError{{Field: "phone", Message: "The phone field is not a valid phone number."}},
		},
		{
			name:   "missing date of birth",
			modify: func(c *BusinessCard) { c.DateOfBirth = Date{} },
			want:   []FieldError{{Field: "dateOfBirth", Message: "The dateOfBirth field is required."}},
		},
		{
			name:   "invalid email",
			modify: func(c *BusinessCard) { c.Email = Optional("not-an-address") },
			want:   []FieldError{{Field: "email", Message: "The email field is not a valid e-mail address."}},
		},
		{
			name:   "address too long",
			modify: func(c *BusinessCard) { c.Address = Optional(strings.Repeat("a", 351)) },
			want:   []FieldError{{Field: "address", Message: "The address field must not be longer than 350 characters."}},
		},
		{
			name: "several violations",
			modify: func(c *BusinessCard) {
				c.Name = ""
				c.Gender = ""
			},
			want: []FieldError{
				{Field: "name", Message: "The name field is required."},
				{Field: "gender", Message: "The gender field is required."},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.modify(&card)
			if diff := cmp.Diff(tt.want, Validate(&card)); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	card := validCard()
	card.Name = strings.Repeat("ö", 20)
	assert.Nil(t, Validate(&card))
}

func TestPhonePattern(t *testing.T) {
	for _, phone := range []string{"555-0100", "+49 0815 4711", "(030) 123456", "+1.555.010.0100", "555 0100 ext. 12"} {
		assert.True(t, phonePattern.MatchString(phone), phone)
	}
	for _, phone := range []string{"", "abc", "555--0100", "+", "12 34 x"} {
		assert.False(t, phonePattern.MatchString(phone), phone)
	}
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(""))
	assert.Equal(t, "x", *Optional("x"))
	assert.Equal(t, "", Value(nil))
	assert.Equal(t, "x", Value(Optional("x")))
}

func TestNormalize(t *testing.T) {
	card := validCard()
	card.Email = new(string)
	card.Address = new(string)
	card.PhotoBase64 = new(string)
	card.Normalize()

	assert.Nil(t, card.Email)
	assert.Nil(t, card.Address)
	assert.Nil(t, card.PhotoBase64)
	assert.Nil(t, Validate(&card))

	card = validCard()
	card.Normalize()
	assert.Equal(t, "alice@example.com", Value(card.Email))
}
