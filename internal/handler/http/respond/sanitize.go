package respond

import (
	"regexp"
)

var (
	// Bearer tokens occasionally leak into transport errors via request dumps.
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/-]+=*`)

	// Credentials embedded in URLs (e.g. basic-auth image hosts in a DSN-like form).
	urlPasswordPattern = regexp.MustCompile(`://([^:/]+):([^@]+)@`)

	// Signed query parameters on payload URLs.
	signaturePattern = regexp.MustCompile(`([?&](?:signature|token|key)=)[^&\s]+`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = bearerTokenPattern.ReplaceAllString(msg, "Bearer ****")
	msg = urlPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = signaturePattern.ReplaceAllString(msg, "${1}****")

	return msg
}
