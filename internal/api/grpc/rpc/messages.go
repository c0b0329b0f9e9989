package rpc

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Username  string  `json:"username" validate:"required,min=3,max=50,username"`
	Password  string  `json:"password" validate:"required,strongpassword"`
	FirstName string  `json:"first_name" validate:"omitempty,max=100"`
	LastName  string  `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,e164"`
}

type RegisterResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// EmailRequest carries a bare address, as for resending codes.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int64            `json:"expires_in"`
	User         model.PublicUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	User model.PublicUser `json:"user"`
}

type SessionsResponse struct {
	Sessions []model.SessionInfo `json:"sessions"`
	Total    int                 `json:"total"`
}

type SessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

type LogoutAllResponse struct {
	Revoked int64  `json:"revoked"`
	Message string `json:"message"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strongpassword,nefield=CurrentPassword"`
}

type UserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type UpdateStatusRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=pending active inactive suspended blocked"`
}

type ListFailedEmailsRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}

// EmailJob is the admin view of a failed delivery.
type EmailJob struct {
	ID          uuid.UUID  `json:"id"`
	Recipients  []string   `json:"recipients"`
	Subject     string     `json:"subject"`
	Template    string     `json:"template"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	LastError   *string    `json:"last_error,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type FailedEmailsResponse struct {
	Jobs []EmailJob `json:"jobs"`
}

type EmailJobRequest struct {
	JobID string `json:"job_id" validate:"required,uuid"`
}
