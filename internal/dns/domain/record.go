package domain

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeNS    RecordType = "NS"
	RecordTypeMX    RecordType = "MX"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeCAA   RecordType = "CAA"
	RecordTypeSOA   RecordType = "SOA"
	RecordTypePTR   RecordType = "PTR"
)

// ZoneType distinguishes authoritative zones from secondaries.
type ZoneType string

// ZoneTypeMaster is the only zone type Vscale serves.
const ZoneTypeMaster ZoneType = "master"

// Zone is a DNS zone hosted by the provider.
type Zone struct {
	// ID is the provider-assigned zone identifier.
	ID string `json:"id" yaml:"id"`

	// Domain is the zone apex (e.g. "example.com").
	Domain string `json:"domain" yaml:"domain"`

	Type ZoneType `json:"type" yaml:"type"`

	// TTL is the default record TTL, nil when the provider does not expose one.
	TTL *int `json:"ttl,omitempty" yaml:"ttl,omitempty"`

	// Extra holds the provider fields not mapped above (tags, user_id, dates).
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Record represents a single DNS record.
type Record struct {
	// ID is the provider-assigned record identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the record name as returned by the provider
	// (e.g. "www.example.com").
	Name string `json:"name" yaml:"name"`

	// Type is the DNS record type (A, AAAA, CNAME, etc.).
	Type RecordType `json:"type" yaml:"type"`

	// Data is the record value (IP address, hostname, text, etc.).
	Data string `json:"data" yaml:"data"`

	// TTL is the time-to-live in seconds, nil when the provider omitted it.
	TTL *int `json:"ttl,omitempty" yaml:"ttl,omitempty"`

	// Zone is the zone the record belongs to.
	Zone *Zone `json:"-" yaml:"-"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}
