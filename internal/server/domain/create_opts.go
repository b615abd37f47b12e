package domain

// CreateNodeOpts holds the parameters for creating a new node.
// Required fields must be populated for every provider. Optional fields
// may be left at their zero values; providers will apply sensible defaults.
type CreateNodeOpts struct {
	// Required
	Name  string `validate:"required,hostname_rfc1123"`
	Image string `validate:"required"` // image ID
	Size  string `validate:"required"` // plan ID

	// Common optional
	Location         string
	SSHKeyIDs        []int64 `validate:"dive,gt=0"`
	Password         string
	StartAfterCreate *bool // nil = provider default (start)
}
