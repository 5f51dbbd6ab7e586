package services

import (
	"errors"

	"commerce-service/internal/repository"
)

var (
	ErrInvalidOrderData   = errors.New("incomplete or invalid order data")
	ErrInvalidProductData = errors.New("incomplete or invalid product data")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")

	ErrInvalidPaymentData      = errors.New("incomplete or invalid payment data")
	ErrBankRequired            = errors.New("bank selection is required for bank transfer")
	ErrOrderAlreadyProcessed   = errors.New("order has already been paid or cancelled")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentExpired          = errors.New("payment has expired")
	ErrInvalidVerificationCode = errors.New("invalid verification code")

	// Storage-enforced invariants surface through the repositories;
	// re-exported here so handlers only map service errors.
	ErrInsufficientStock    = repository.ErrInsufficientStock
	ErrPaymentAlreadyExists = repository.ErrPaymentAlreadyExists
)
