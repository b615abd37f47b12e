package vscale

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	dnsdomain "thebits/vscale/internal/dns/domain"
	"thebits/vscale/internal/domain"
)

// ErrorHeader carries the error token on responses with an empty body.
const ErrorHeader = "Vscale-Error-Message"

// maxTokenLen bounds how much of a raw (non-JSON) body is kept as the token.
const maxTokenLen = 256

// errorKinds maps vendor error tokens to domain error kinds. Tokens absent
// from the table, and domain_already_exists, yield a generic ProviderError.
var errorKinds = map[string]error{
	"domain_not_found":                 dnsdomain.ErrZoneDoesNotExist,
	"record_not_found":                 dnsdomain.ErrRecordDoesNotExist,
	"record_already_exists":            dnsdomain.ErrRecordAlreadyExists,
	"tag_not_found":                    dnsdomain.ErrZone,
	"cname_record_conflict":            dnsdomain.ErrRecord,
	"record_does_not_belong_to_domain": dnsdomain.ErrRecord,
	"cant_add_soa":                     dnsdomain.ErrRecord,
	"string_required":                  dnsdomain.ErrRecord,
	"bad_zone_name":                    dnsdomain.ErrRecord,
	"bad_record_name":                  dnsdomain.ErrRecord,
	"zone_name_too_long":               dnsdomain.ErrRecord,
}

// Classify turns an HTTP response into an error. It returns nil for
// statuses below 400. 403 is always ErrUnauthorized; otherwise the vendor
// token decides the kind, and unknown tokens produce a ProviderError with a
// nil Kind that still carries the status and token.
func Classify(status int, header http.Header, body []byte) error {
	if status < http.StatusBadRequest {
		return nil
	}

	token, message := errorToken(header, body)
	perr := &domain.ProviderError{
		StatusCode: status,
		Code:       token,
		Message:    message,
	}

	switch {
	case status == http.StatusForbidden:
		perr.Kind = domain.ErrUnauthorized
	case errorKinds[token] != nil:
		perr.Kind = errorKinds[token]
	case status == http.StatusTooManyRequests:
		perr.Kind = domain.ErrRateLimited
	}

	return perr
}

// errorToken extracts the vendor error token and an optional message, in
// order of preference: the JSON "error" field, the JSON "message" field, the
// Vscale-Error-Message header, the raw body.
func errorToken(header http.Header, body []byte) (token, message string) {
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Error.(string); ok && s != "" {
			return s, payload.Message
		}
		if payload.Message != "" {
			return payload.Message, ""
		}
	}

	if h := strings.TrimSpace(header.Get(ErrorHeader)); h != "" {
		return h, ""
	}

	return truncateToken(strings.TrimSpace(string(body))), ""
}

// truncateToken cuts s to at most maxTokenLen bytes without splitting a
// UTF-8 sequence.
func truncateToken(s string) string {
	if len(s) <= maxTokenLen {
		return s
	}
	cut := maxTokenLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
