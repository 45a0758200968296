package model

import "time"

type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudentID string    `json:"student_id" bson:"student_id" validate:"required,min=1,max=32"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StudentID string `json:"student_id" validate:"required,max=32"`
	Email     string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Name      string `json:"name" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=2000"`
}

// FormError is returned alongside validation failures so a client can re-render the
// form: fields that are safe to keep are echoed back, sensitive ones are blanked.
type FormError struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Email     string `json:"email,omitempty"`
}
