package service

import (
	"errors"
)

// Redemption failures.
var (
	ErrInvalidLink      = errors.New("invalid link")
	ErrExpiredLink      = errors.New("link expired")
	ErrResourceMissing  = errors.New("shared image missing")
	ErrPasscodeRequired = errors.New("passcode required")
	ErrTransient        = errors.New("transient failure")
)

// Issuance and ownership failures.
var (
	ErrIssuanceFailed  = errors.New("issuance failed")
	ErrInvalidValidity = errors.New("invalid validity duration")
	ErrImageNotFound   = errors.New("image not found")
	ErrNotOwner        = errors.New("access denied: not the owner of this image")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Validation failures.
var (
	ErrInvalidImage    = errors.New("invalid image")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// UserMessage returns the plain-language text shown for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLink):
		return "Invalid or expired link."
	case errors.Is(err, ErrExpiredLink):
		return "This link has expired."
	case errors.Is(err, ErrResourceMissing), errors.Is(err, ErrImageNotFound):
		return "Image not found."
	case errors.Is(err, ErrPasscodeRequired):
		return "This link requires a passcode."
	case errors.Is(err, ErrNotOwner):
		return "You can only manage your own images."
	case errors.Is(err, ErrUnauthenticated):
		return "Please sign in."
	case errors.Is(err, ErrInvalidValidity):
		return "The link validity must be a positive duration within the allowed maximum."
	case errors.Is(err, ErrInvalidCategory):
		return "Unknown category."
	case errors.Is(err, ErrInvalidImage), errors.Is(err, ErrInvalidProfile):
		return err.Error()
	case errors.Is(err, ErrIssuanceFailed):
		return "Could not create the share link. Please try again."
	default:
		return "Something went wrong"
	}
}
