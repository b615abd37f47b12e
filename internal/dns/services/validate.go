package services

import (
	"fmt"
	"net"
	"strings"

	"thebits/vscale/internal/dns/domain"
)

// DefaultTTL is the TTL applied to new records when none is specified.
const DefaultTTL = 3600

// validRecordTypes is the set of record types Vscale accepts.
var validRecordTypes = map[domain.RecordType]bool{
	domain.RecordTypeA:     true,
	domain.RecordTypeAAAA:  true,
	domain.RecordTypeCNAME: true,
	domain.RecordTypeTXT:   true,
	domain.RecordTypeNS:    true,
	domain.RecordTypeMX:    true,
	domain.RecordTypeSRV:   true,
	domain.RecordTypeCAA:   true,
	domain.RecordTypePTR:   true,
}

// normalizeDomain lowercases and strips any trailing dot from a domain name.
func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(d), "."))
}

// qualifyName turns a record name into the fully-qualified form Vscale
// stores: "" and "@" become the zone apex, "www" becomes "www.<zone>", and
// names already ending in the zone are kept.
func qualifyName(name, zoneDomain string) string {
	name = normalizeDomain(name)
	zoneDomain = normalizeDomain(zoneDomain)

	switch {
	case name == "" || name == "@":
		return zoneDomain
	case name == zoneDomain || strings.HasSuffix(name, "."+zoneDomain):
		return name
	default:
		return name + "." + zoneDomain
	}
}

// validateRecordType returns an error if t is not a supported record type.
func validateRecordType(t domain.RecordType) error {
	if !validRecordTypes[t] {
		return fmt.Errorf("unsupported record type %q", t)
	}
	return nil
}

// validateContent catches obvious mismatches between type and content
// (e.g. a non-IP value for an A record) before the API is called.
func validateContent(t domain.RecordType, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("record content cannot be empty")
	}

	switch t {
	case domain.RecordTypeA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("A record content must be a valid IPv4 address, got %q", content)
		}
	case domain.RecordTypeAAAA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() != nil {
			return fmt.Errorf("AAAA record content must be a valid IPv6 address, got %q", content)
		}
	}

	return nil
}

func validateTTL(ttl *int) error {
	if ttl != nil && *ttl <= 0 {
		return fmt.Errorf("TTL must be positive, got %d", *ttl)
	}
	return nil
}
