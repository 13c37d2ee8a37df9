package entity

import "LiveInbox/internal/lib/validate"

// LocalUser is the signed-in identity. It is read-only for the inbox.
type LocalUser struct {
	ID       string `json:"id" bson:"user_id" validate:"required"`
	Username string `json:"username" bson:"username" validate:"omitempty"`
	Name     string `json:"name" bson:"name" validate:"omitempty"`
	Avatar   string `json:"avatar" bson:"avatar" validate:"omitempty"`
}

func (u *LocalUser) Validate() error {
	return validate.Struct(u)
}

// Session is passed to every screen on creation instead of being read from
// global state.
type Session struct {
	User  LocalUser `json:"user" validate:"required"`
	Token string    `json:"-" validate:"omitempty"`
}

func NewSession(user LocalUser, token string) (*Session, error) {
	s := &Session{User: user, Token: token}
	if err := validate.Struct(s); err != nil {
		return nil, err
	}
	return s, nil
}
