package domain

import (
	"errors"
	"fmt"
)

// Credential error codes as reported by the identity backend.
const (
	CodeInvalidCredential                = "auth/invalid-credential"
	CodeUserNotFound                     = "auth/user-not-found"
	CodeWrongPassword                    = "auth/wrong-password"
	CodePopupClosedByUser                = "auth/popup-closed-by-user"
	CodeAccountExistsWithOtherCredential = "auth/account-exists-with-different-credential"
	CodeEmailAlreadyInUse                = "auth/email-already-in-use"
	CodeWeakPassword                     = "auth/weak-password"
	CodeTooManyRequests                  = "auth/too-many-requests"
	CodeUserDisabled                     = "auth/user-disabled"
	CodeInvalidEmail                     = "auth/invalid-email"
	CodeRequiresRecentLogin              = "auth/requires-recent-login"
	CodeUserTokenExpired                 = "auth/user-token-expired"
	CodeNetworkRequestFailed             = "auth/network-request-failed"
	CodeInternalError                    = "auth/internal-error"
)

// GenericCredentialMessage is shown for codes without a dedicated message.
const GenericCredentialMessage = "Something went wrong. Please try again."

var credentialMessages = map[string]string{
	CodeInvalidCredential:                "Invalid email or password.",
	CodeUserNotFound:                     "No account found with this email.",
	CodeWrongPassword:                    "Incorrect password.",
	CodePopupClosedByUser:                "Sign-in popup was closed before completing.",
	CodeAccountExistsWithOtherCredential: "An account already exists with a different sign-in method.",
	CodeEmailAlreadyInUse:                "This email is already registered.",
	CodeWeakPassword:                     "Password must be at least 6 characters.",
	CodeTooManyRequests:                  "Too many attempts. Please try again later.",
	CodeUserDisabled:                     "This account has been disabled.",
	CodeInvalidEmail:                     "Please enter a valid email address.",
	CodeRequiresRecentLogin:              "Please log in again to continue.",
	CodeUserTokenExpired:                 "Your session has expired. Please log in again.",
	CodeNetworkRequestFailed:             "Network error. Check your connection and try again.",
}

// CredentialError is a failed identity backend operation.
type CredentialError struct {
	Op   string
	Code string
	Err  error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// Message is the user-facing text for the error code.
func (e *CredentialError) Message() string { return CredentialMessage(e.Code) }

// Known reports whether the code has a dedicated message.
func (e *CredentialError) Known() bool {
	_, ok := credentialMessages[e.Code]
	return ok
}

// CredentialMessage maps a code to a user-facing message.
func CredentialMessage(code string) string {
	if msg, ok := credentialMessages[code]; ok {
		return msg
	}
	return GenericCredentialMessage
}

// CredentialCode extracts the code from err, or "" when err is not a CredentialError.
func CredentialCode(err error) string {
	var ce *CredentialError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
