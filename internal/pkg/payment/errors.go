package payment

import "errors"

// Error taxonomy for the checkout and reconciliation flow. Initiation errors
// are member-visible; webhook errors only choose the HTTP status returned to
// the gateway and are logged for operators.
var (
	// ErrProfileNotFound means the member id did not resolve during
	// initiation. No gateway call is made.
	ErrProfileNotFound = errors.New("payment: member profile not found")

	// ErrCheckoutInProgress means another initiation holds the per-member
	// lock, usually a double click on the pay button. Mapped to 409.
	ErrCheckoutInProgress = errors.New("payment: checkout already in progress")

	// ErrGatewayRejected means the gateway answered with a non-success
	// status or a body without a checkout URL.
	ErrGatewayRejected = errors.New("payment: gateway rejected checkout request")

	// ErrGatewayUnavailable covers transport failures and timeouts on the
	// outbound gateway call. Retryable by the member.
	ErrGatewayUnavailable = errors.New("payment: gateway unavailable")

	// ErrLedgerWriteFailed means the pending ledger insert failed after the
	// gateway already accepted the checkout. The member flow continues; the
	// webhook may later find no matching row.
	ErrLedgerWriteFailed = errors.New("payment: ledger write failed after checkout")

	// ErrWebhookUnmatched means the webhook order id has no ledger row. The
	// gateway still gets a 200 acknowledgement.
	ErrWebhookUnmatched = errors.New("payment: webhook order id matches no ledger entry")

	// ErrWebhookMalformed means the webhook body failed to parse or lacks
	// required fields. The gateway gets a 400.
	ErrWebhookMalformed = errors.New("payment: malformed webhook payload")

	// ErrEntitlementWriteFailed means the subscription upsert failed after a
	// confirmed payment. The one loud failure: the ledger transition rolls
	// back with it and the gateway gets a 5xx, so the redelivery re-enters
	// the grant from the pending state.
	ErrEntitlementWriteFailed = errors.New("payment: entitlement write failed")
)
