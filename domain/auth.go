package domain

import "time"

type OTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type OTPChallenge struct {
	PhoneNumber string    `json:"phoneNumber"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type OTPVerifyInput struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

type AuthSession struct {
	Token       string    `json:"token"`
	PhoneNumber string    `json:"phoneNumber"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
