package service

// User-facing response texts. Validation messages name the limits; the auth
// message deliberately does not say whether the account or the PIN was wrong.
const (
	msgStoreFull      = "Error: Maximum account limit reached."
	msgAuthFailed     = "Error: Invalid account number or PIN."
	msgBadPrecision   = "Error: Amount must have at most two decimal places."
	msgInvalidType    = "Error: Invalid account type."
	msgMissingDetails = "Error: Name and national ID are required."
	msgInvalidRequest = "Error: Invalid request type."
	msgPersistFailed  = "Error: Could not save your transaction. Please try again."
)
