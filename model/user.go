package model

import "time"

// UserEntity is a profile record persisted in users.json
type UserEntity struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserUpdate is a partial update, nil fields are left untouched
type UserUpdate struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username,omitempty"`
	Email       string     `json:"email,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Name        string     `json:"name"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// UpdateProfileRequest for PUT /api/users/profile
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
}

type UpdateProfileResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// NewUserResponse builds the public view of a user
func NewUserResponse(u *UserEntity) UserResponse {
	createdAt := u.CreatedAt
	res := UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Name:        u.Name,
	}
	if !createdAt.IsZero() {
		res.CreatedAt = &createdAt
	}
	return res
}
