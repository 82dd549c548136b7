package apperrors

import (
	"net/http"
)

// ErrNotFound - оборачивает ошибку репозитория в 404
func ErrNotFound(err error, domain string) *AppError {
	return Wrap(err, CodeNotFound, domain, "Resource not found", http.StatusNotFound)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrProvider - сбой платежного провайдера (502)
func ErrProvider(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "payment", "Payment provider error", http.StatusBadGateway)
}

// --- Auth ---

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrInvalidTelegramAuth = New(CodeInvalidSignature, "auth", "Telegram login data is invalid or outdated", http.StatusUnauthorized)

var ErrInvalidBotSecret = New(CodeUnauthorized, "auth", "Invalid bot secret", http.StatusUnauthorized)

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

// --- Users ---

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

// --- Projects ---

var ErrProjectNotFound = New(CodeNotFound, "project", "Project not found", http.StatusNotFound)

var ErrNotProjectOwner = New(CodeForbidden, "project", "You are not the owner of this project", http.StatusForbidden)

var ErrConnectionCodeNotFound = New(CodeNotFound, "project", "Connection code not found", http.StatusNotFound)

var ErrProjectAlreadyConnected = New(CodeConflict, "project", "Project is already connected to a channel", http.StatusConflict)

var ErrChannelAlreadyConnected = New(CodeConflict, "project", "Channel is already connected to another project", http.StatusConflict)

var ErrProjectNotConnected = New(CodeInvalidStatus, "project", "Project channel is not connected yet", http.StatusBadRequest)

// --- Plans & subscriptions ---

var ErrPlanNotFound = New(CodeNotFound, "plan", "Plan not found", http.StatusNotFound)

var ErrPlanInactive = New(CodeInvalidStatus, "plan", "Plan is not active", http.StatusBadRequest)

var ErrPaidPlanRequiresPayment = New(CodePaymentRequired, "subscription", "This plan requires payment", http.StatusPaymentRequired)

var ErrSubscriptionNotFound = New(CodeNotFound, "subscription", "Active subscription not found", http.StatusNotFound)
var ErrSubscriptionAlreadyActive = New(CodeConflict, "subscription", "You already have an active subscription to this channel", http.StatusConflict)

// --- Payments ---

var ErrPaymentNotFound = New(CodeNotFound, "payment", "Payment not found", http.StatusNotFound)

var ErrInvalidWebhookSignature = New(CodeInvalidSignature, "payment", "Invalid webhook signature", http.StatusBadRequest)

var ErrInvalidPaymentAmount = New(CodeConflict, "payment", "Paid amount does not match the payment", http.StatusConflict)

// --- Payouts ---

var ErrPayoutSettingsMissing = New(CodeInvalidOperation, "payout", "Payout method and details must be set first", http.StatusBadRequest)

var ErrBalanceBelowMinimum = New(CodeInsufficientFund, "payout", "Balance is below the minimum payout amount", http.StatusBadRequest)

var ErrPayoutNotFound = New(CodeNotFound, "payout", "Payout request not found", http.StatusNotFound)

var ErrInvalidPayoutTransition = New(CodeInvalidStatus, "payout", "Payout status transition is not allowed", http.StatusConflict)
