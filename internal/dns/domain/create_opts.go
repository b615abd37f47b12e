package domain

import "thebits/vscale/internal/domain"

// CreateRecordOpts holds the parameters for creating a new DNS record.
type CreateRecordOpts struct {
	// Name is the record name. Vscale expects the fully-qualified form
	// ("www.example.com"); the DNS service expands short names.
	Name string

	// Type is the DNS record type. Required.
	Type RecordType

	// Data is the record value. Required.
	Data string

	// TTL is the time-to-live in seconds. Nil means provider default.
	TTL *int
}

// UpdateRecordOpts describes a partial record update. Each field is left
// untouched unless set with domain.Set.
type UpdateRecordOpts struct {
	Name domain.Patch[string]
	Type domain.Patch[RecordType]
	Data domain.Patch[string]
	TTL  domain.Patch[*int]
}

// IsEmpty reports whether no field is set.
func (o UpdateRecordOpts) IsEmpty() bool {
	return !o.Name.IsSet() && !o.Type.IsSet() && !o.Data.IsSet() && !o.TTL.IsSet()
}

// Merge returns r with every set field replaced. The record's ID, Zone and
// Extra are preserved.
func (o UpdateRecordOpts) Merge(r Record) Record {
	r.Name = o.Name.Apply(r.Name)
	r.Type = o.Type.Apply(r.Type)
	r.Data = o.Data.Apply(r.Data)
	r.TTL = o.TTL.Apply(r.TTL)
	return r
}
