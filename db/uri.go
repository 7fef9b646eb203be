package db

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	schemeSRV      = "mongodb+srv://"
	schemeStandard = "mongodb://"
)

// A %XX byte anywhere in a credential means it was already encoded.
// A raw '%' that happens to look like an escape is misread on purpose;
// callers who need a literal '%' must pre-encode the whole component.
var encodedByte = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)

var trailingPort = regexp.MustCompile(`:\d+$`)

// NormalizeURI rewrites a MongoDB connection string so it can be handed to
// the driver as-is: raw credentials are percent-encoded, and a port is
// removed for the +srv scheme, which forbids one. Unrecognized schemes pass
// through untouched. The function is idempotent.
func NormalizeURI(uri string) string {
	var scheme string
	switch {
	case strings.HasPrefix(uri, schemeSRV):
		scheme = schemeSRV
	case strings.HasPrefix(uri, schemeStandard):
		scheme = schemeStandard
	default:
		return uri
	}

	rest := uri[len(scheme):]

	// Credentials end at the last '@' before the path or query begins.
	// Splitting on the last one keeps '@' inside a raw password opaque.
	zone := rest
	if i := strings.IndexAny(rest, "/?"); i != -1 {
		zone = rest[:i]
	}
	if at := strings.LastIndex(zone, "@"); at != -1 {
		creds := rest[:at]
		hostAndPath := rest[at+1:]

		if colon := strings.Index(creds, ":"); colon != -1 {
			user := encodeComponent(creds[:colon])
			pass := encodeComponent(creds[colon+1:])
			rest = user + ":" + pass + "@" + hostAndPath
		} else {
			rest = encodeComponent(creds) + "@" + hostAndPath
		}
	}

	if scheme == schemeSRV {
		rest = stripPort(rest)
	}
	return scheme + rest
}

func encodeComponent(s string) string {
	if encodedByte.MatchString(s) {
		return s
	}
	// QueryEscape but with %20 for spaces, as in URI component encoding.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// stripPort drops a ":<digits>" suffix from the host section of rest
// (everything between the credentials '@', if any, and the first '/' or '?').
func stripPort(rest string) string {
	end := len(rest)
	if i := strings.IndexAny(rest, "/?"); i != -1 {
		end = i
	}
	hostZone := rest[:end]
	start := 0
	if at := strings.LastIndex(hostZone, "@"); at != -1 {
		start = at + 1
	}
	host := trailingPort.ReplaceAllString(hostZone[start:], "")
	return rest[:start] + host + rest[end:]
}
