package sazito

import (
	"context"
	"fmt"
)

// LoginInput is an email/password login.
type LoginInput struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

// RegisterInput creates an account.
type RegisterInput struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	FirstName            string `json:"firstName,omitempty"`
	LastName             string `json:"lastName,omitempty"`
	Mobile               string `json:"mobile,omitempty"`
}

// VerifyMobileInput answers a mobile OTP challenge.
type VerifyMobileInput struct {
	Mobile           string `json:"mobile"`
	VerificationCode string `json:"verificationCode"`
}

// ResetPasswordInput sets a new password from a forgot-password token.
type ResetPasswordInput struct {
	ForgotPasswordToken  string `json:"forgotPasswordToken"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// UsersService handles sessions and the signed-in user.
type UsersService struct {
	client *Client
}

// Login signs in and stores the returned jwt.
func (s *UsersService) Login(ctx context.Context, input LoginInput, opts ...RequestOption) *Response {
	return s.storeToken(s.client.Post(ctx, SessionsAPI+"/login", input, opts...))
}

// RequestMobileOTP sends a one-time code to mobile.
func (s *UsersService) RequestMobileOTP(ctx context.Context, mobile string, opts ...RequestOption) *Response {
	return s.client.Post(ctx, SessionsAPI+"/login_request", map[string]any{"mobile": mobile}, opts...)
}

// VerifyMobileOTP signs in with a one-time code and stores the returned jwt.
func (s *UsersService) VerifyMobileOTP(ctx context.Context, input VerifyMobileInput, opts ...RequestOption) *Response {
	return s.storeToken(s.client.Post(ctx, SessionsAPI+"/login_request_verification", input, opts...))
}

func (s *UsersService) Register(ctx context.Context, input RegisterInput, opts ...RequestOption) *Response {
	return s.client.Post(ctx, UsersAPI+"/register", input, opts...)
}

// Current returns the signed-in user.
func (s *UsersService) Current(ctx context.Context, opts ...RequestOption) *Response {
	return s.client.Get(ctx, UsersAPI+"/current", opts...)
}

// UpdateProfile replaces profile fields of user id.
func (s *UsersService) UpdateProfile(ctx context.Context, id int64, fields map[string]any, opts ...RequestOption) *Response {
	return s.client.Put(ctx, fmt.Sprintf("%s/%d", UsersAPI, id), fields, opts...)
}

// ForgotPassword mails a reset link.
func (s *UsersService) ForgotPassword(ctx context.Context, email string, opts ...RequestOption) *Response {
	return s.client.Post(ctx, UsersAPI+"/forgot_password", map[string]any{"email": email}, opts...)
}

func (s *UsersService) ResetPassword(ctx context.Context, input ResetPasswordInput, opts ...RequestOption) *Response {
	return s.storeToken(s.client.Post(ctx, UsersAPI+"/revive_password", input, opts...))
}

// MergeData moves guest data into the signed-in account.
func (s *UsersService) MergeData(ctx context.Context, opts ...RequestOption) *Response {
	return s.client.Post(ctx, UsersAPI+"/merge_data", map[string]any{}, opts...)
}

// Logout drops the stored token.
func (s *UsersService) Logout() {
	s.client.tokens.Clear()
}

func (s *UsersService) storeToken(resp *Response) *Response {
	if !resp.OK() {
		return resp
	}
	if m, ok := resp.Data.(map[string]any); ok {
		if jwt, ok := m["jwt"].(string); ok && jwt != "" {
			s.client.tokens.SetToken(jwt)
		}
	}
	return resp
}
