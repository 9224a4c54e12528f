package feishu

import "fmt"

// APIError is a non-zero code returned in a Feishu response envelope.
// Msg carries a curated human-readable cause for the codes we know about.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feishu api error: %d - %s", e.Code, e.Msg)
}

// Known envelope codes. The auth codes come back from the token endpoint,
// the bitable codes from record listing and writing.
const (
	codeInvalidAppSecret = 10014
	codeInvalidAppID     = 10013
	codeTokenInvalid     = 99991663
	codeTokenExpired     = 99991664
	codeNoPermission     = 99991672
	codeNoBaseAccess     = 1254032
	codeBaseNotFound     = 1254051
	codeTableNotFound    = 1254010
)

// apiError maps a raw envelope code to an APIError with a curated message.
// Unknown codes keep the remote msg, prefixed by the numeric code.
func apiError(code int, msg string) *APIError {
	switch code {
	case codeInvalidAppSecret:
		msg = "invalid app secret, check the App Secret in your Feishu app settings"
	case codeInvalidAppID:
		msg = "invalid app id, check the App ID in your Feishu app settings"
	case codeTokenInvalid:
		msg = "tenant access token is invalid"
	case codeTokenExpired:
		msg = "tenant access token has expired"
	case codeNoPermission:
		msg = "app lacks Bitable read permission (grant bitable:app:readonly, bitable:app or base:record:retrieve)"
	case codeNoBaseAccess:
		msg = "app has no access to this base, add the app to the workspace and grant it permission"
	case codeBaseNotFound:
		msg = "base (table container) not found or deleted, check the app_token part of the table URL"
	case codeTableNotFound:
		msg = "data table not found, check the table parameter of the table URL"
	default:
		msg = fmt.Sprintf("%d - %s", code, msg)
	}
	return &APIError{Code: code, Msg: msg}
}
