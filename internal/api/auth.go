package api

import (
	"context"
	"net/http"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyOTPResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login submits credentials. On success the backend dispatches a one-time
// code out of band; no token is issued yet.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/user/login", nil, LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP exchanges the 6-digit code for a bearer token.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*VerifyOTPResponse, error) {
	var out VerifyOTPResponse
	err := c.do(ctx, http.MethodPost, "/user/verify-otp", nil, VerifyOTPRequest{Email: email, OTP: otp}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
