package models

type ProjectStatus string
type SubscriptionStatus string
type PaymentStatus string
type PayoutStatus string
type PayoutMethod string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusConnected ProjectStatus = "connected"
	ProjectStatusDisabled  ProjectStatus = "disabled"

	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	PayoutStatusPending  PayoutStatus = "pending"
	PayoutStatusApproved PayoutStatus = "approved"
	PayoutStatusPaid     PayoutStatus = "paid"
	PayoutStatusRejected PayoutStatus = "rejected"

	PayoutMethodIBAN   PayoutMethod = "iban"
	PayoutMethodPayPal PayoutMethod = "paypal"
	PayoutMethodCrypto PayoutMethod = "crypto"
)

// CanTransitionTo - допустимые переходы статуса выплаты (админка)
func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	switch s {
	case PayoutStatusPending:
		return next == PayoutStatusApproved || next == PayoutStatusRejected
	case PayoutStatusApproved:
		return next == PayoutStatusPaid || next == PayoutStatusRejected
	default:
		return false
	}
}
