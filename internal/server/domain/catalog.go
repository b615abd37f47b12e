package domain

// Location represents an available deployment region/datacenter.
type Location struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Country string         `json:"country" yaml:"country"` // ISO 3166 alpha-2, e.g. "RU"
	Extra   map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Size describes a server plan.
type Size struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	RAM       int     `json:"ram" yaml:"ram"`             // in MB
	Disk      int     `json:"disk" yaml:"disk"`           // in MB
	Bandwidth int     `json:"bandwidth" yaml:"bandwidth"` // zero when the provider does not report it
	Price     float64 `json:"price" yaml:"price"`         // zero when the provider does not report it

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Image describes an OS image nodes can be built from.
type Image struct {
	ID    string         `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}
