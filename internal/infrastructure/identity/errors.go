package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// toolkitError is an error payload returned by the REST API.
type toolkitError struct {
	Status  int
	Message string
}

func (e *toolkitError) Error() string {
	return fmt.Sprintf("identity toolkit: %d %s", e.Status, e.Message)
}

type networkError struct{ err error }

func (e *networkError) Error() string { return "identity toolkit: " + e.err.Error() }
func (e *networkError) Unwrap() error { return e.err }

var toolkitCodes = map[string]string{
	"EMAIL_NOT_FOUND":                  domain.CodeUserNotFound,
	"INVALID_PASSWORD":                 domain.CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":        domain.CodeInvalidCredential,
	"INVALID_IDP_RESPONSE":             domain.CodeInvalidCredential,
	"EMAIL_EXISTS":                     domain.CodeEmailAlreadyInUse,
	"WEAK_PASSWORD":                    domain.CodeWeakPassword,
	"USER_DISABLED":                    domain.CodeUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER":      domain.CodeTooManyRequests,
	"INVALID_EMAIL":                    domain.CodeInvalidEmail,
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN":   domain.CodeRequiresRecentLogin,
	"FEDERATED_USER_ID_ALREADY_LINKED": domain.CodeAccountExistsWithOtherCredential,
	"TOKEN_EXPIRED":                    domain.CodeUserTokenExpired,
	"INVALID_REFRESH_TOKEN":            domain.CodeUserTokenExpired,
	"INVALID_ID_TOKEN":                 domain.CodeUserTokenExpired,
	"USER_NOT_FOUND":                   domain.CodeUserTokenExpired,
}

// codeFor maps a toolkit error message such as
// "WEAK_PASSWORD : Password should be at least 6 characters" to an SDK code.
// Unmapped messages become "auth/<kebab-case>".
func codeFor(message string) string {
	key, _, _ := strings.Cut(message, " ")
	key = strings.TrimSpace(key)
	if code, ok := toolkitCodes[key]; ok {
		return code
	}
	if key == "" {
		return domain.CodeInternalError
	}
	return "auth/" + strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// credentialError wraps err into the domain error reported to callers.
func credentialError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *domain.CredentialError
	if errors.As(err, &ce) {
		return err
	}
	var te *toolkitError
	if errors.As(err, &te) {
		return &domain.CredentialError{Op: op, Code: codeFor(te.Message), Err: err}
	}
	var ne *networkError
	if errors.As(err, &ne) {
		return &domain.CredentialError{Op: op, Code: domain.CodeNetworkRequestFailed, Err: err}
	}
	return &domain.CredentialError{Op: op, Code: domain.CodeInternalError, Err: err}
}

// popupCode turns the error reported by the browser's provider popup into a
// code. Codes the browser already namespaced are kept.
func popupCode(code string) string {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "auth/") {
		return code
	}
	return domain.CodePopupClosedByUser
}
