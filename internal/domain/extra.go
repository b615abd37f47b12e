package domain

// ExtraWithout returns a copy of raw with the given keys removed. Providers use
// it to build an entity's Extra map from the decoded response body once the
// named fields have been mapped onto struct attributes, so every vendor field
// ends up in exactly one place.
func ExtraWithout(raw map[string]any, mapped ...string) map[string]any {
	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		extra[k] = v
	}
	for _, k := range mapped {
		delete(extra, k)
	}
	return extra
}
