// auth.go builds the per-request authentication header.

package raven

import (
	"strconv"
	"strings"
	"time"
)

// ProtocolVersion is the protocol version sent in the auth header.
const ProtocolVersion = 4

// AuthHeaderName is the HTTP header that carries the value of BuildAuthHeader.
const AuthHeaderName = "X-Sentry-Auth"

// BuildAuthHeader formats the credential header for a single request:
//
//	Sentry sentry_version=4, sentry_client=<name>/<version>, sentry_timestamp=<unix>, sentry_key=<public>[, sentry_secret=<private>]
//
// sentry_secret is omitted for public-only DSNs. The timestamp comes from
// now, so the result depends only on the arguments.
func BuildAuthHeader(dsn *Dsn, clientName, clientVersion string, now time.Time) (string, error) {
	if dsn == nil || dsn.PublicKey == "" {
		return "", &MissingCredentialsError{}
	}

	var b strings.Builder
	b.WriteString("Sentry sentry_version=")
	b.WriteString(strconv.Itoa(ProtocolVersion))
	b.WriteString(", sentry_client=")
	b.WriteString(clientName)
	b.WriteString("/")
	b.WriteString(clientVersion)
	b.WriteString(", sentry_timestamp=")
	b.WriteString(strconv.FormatInt(now.Unix(), 10))
	b.WriteString(", sentry_key=")
	b.WriteString(dsn.PublicKey)
	if dsn.HasPrivateKey() {
		b.WriteString(", sentry_secret=")
		b.WriteString(dsn.PrivateKey)
	}
	return b.String(), nil
}
