package model

import "time"

type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

type User struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type ProfileResponse struct {
	Me User `json:"me"`
}

// ProfileForm is the multipart body of PUT /user/profile/edit/:userId.
type ProfileForm struct {
	Name           string  `validate:"required,min=2,max=80"`
	ProfilePicture *Upload `validate:"-"`
}
