package domain

import "errors"

var (
	// ErrAuthExpired is returned when an authorization deadline is in the past
	ErrAuthExpired = errors.New("authorization expired")

	// ErrAuthReplayed is returned when an authorization nonce or digest was already consumed
	ErrAuthReplayed = errors.New("authorization replayed")

	// ErrAuthInvalidSigner is returned when the recovered signer is not the configured operator
	ErrAuthInvalidSigner = errors.New("authorization signer is not the operator")

	// ErrCollectionNotTrusted is returned when a collection is not registered as trusted
	ErrCollectionNotTrusted = errors.New("collection not trusted")

	// ErrListingNotFound is returned when no listing exists for the key
	ErrListingNotFound = errors.New("listing not found")

	// ErrListingClosed is returned when a listing is sold out or cancelled
	ErrListingClosed = errors.New("listing closed")

	// ErrInsufficientQuantity is returned when a trade asks for more than remains
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrInvalidQuantity is returned for a zero or negative quantity
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrPaymentTransferFailed is returned when the payment token rejects a movement
	ErrPaymentTransferFailed = errors.New("payment transfer failed")

	// ErrAssetTransferFailed is returned when the asset collection rejects a movement
	ErrAssetTransferFailed = errors.New("asset transfer failed")

	// ErrFeeConfigInvalid is returned when fee and royalty exceed the price
	ErrFeeConfigInvalid = errors.New("fee configuration invalid")

	// ErrUnauthorized is returned when a non-admin calls an admin operation
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned for malformed addresses, amounts or URIs
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotInitialized is returned before the protocol is bootstrapped
	ErrNotInitialized = errors.New("protocol not initialized")

	// ErrAlreadyInitialized is returned on a second bootstrap
	ErrAlreadyInitialized = errors.New("protocol already initialized")

	// ErrUnsupportedVersion is returned when an operation needs a newer schema
	ErrUnsupportedVersion = errors.New("unsupported schema version")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrAuthExpired, "AuthExpired"},
	{ErrAuthReplayed, "AuthReplayed"},
	{ErrAuthInvalidSigner, "AuthInvalidSigner"},
	{ErrCollectionNotTrusted, "CollectionNotTrusted"},
	{ErrListingNotFound, "ListingNotFound"},
	{ErrListingClosed, "ListingClosed"},
	{ErrInsufficientQuantity, "InsufficientQuantity"},
	{ErrInvalidQuantity, "InvalidQuantity"},
	{ErrPaymentTransferFailed, "PaymentTransferFailed"},
	{ErrAssetTransferFailed, "AssetTransferFailed"},
	{ErrFeeConfigInvalid, "FeeConfigInvalid"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrInvalidInput, "InvalidInput"},
	{ErrNotInitialized, "NotInitialized"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrUnsupportedVersion, "UnsupportedVersion"},
}

// Code returns the stable name of the first domain error in err's chain,
// "OK" for nil and "Internal" for anything else
func Code(err error) string {
	if err == nil {
		return "OK"
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "Internal"
}
