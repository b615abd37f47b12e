package vscale

import "fmt"

// datacenterCountry is the closed set of Vscale datacenters and the ISO
// country each one is in.
var datacenterCountry = map[int]string{
	1:  "RU",
	2:  "CH",
	3:  "GB",
	5:  "RU",
	8:  "RU",
	9:  "RU",
	10: "RU",
	21: "DE",
}

// ErrUnknownDatacenter is returned by DatacenterCountry for ids outside the
// known table. Providers wrap it with their own domain sentinel.
type ErrUnknownDatacenter struct {
	ID int
}

func (e *ErrUnknownDatacenter) Error() string {
	return fmt.Sprintf("datacenter %d has no known country", e.ID)
}

// DatacenterCountry returns the country code for datacenter id.
func DatacenterCountry(id int) (string, error) {
	country, ok := datacenterCountry[id]
	if !ok {
		return "", &ErrUnknownDatacenter{ID: id}
	}
	return country, nil
}
