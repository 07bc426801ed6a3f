package enums

import "fmt"

// TaxonomyDomain scopes a category or tag to one content domain.
type TaxonomyDomain string

const (
	TaxonomyDomainPost    TaxonomyDomain = "post"
	TaxonomyDomainEvent   TaxonomyDomain = "event"
	TaxonomyDomainService TaxonomyDomain = "service"
	TaxonomyDomainTourism TaxonomyDomain = "tourism"
)

var validTaxonomyDomains = []TaxonomyDomain{
	TaxonomyDomainPost,
	TaxonomyDomainEvent,
	TaxonomyDomainService,
	TaxonomyDomainTourism,
}

// String implements fmt.Stringer.
func (d TaxonomyDomain) String() string {
	return string(d)
}

// IsValid reports whether the value is a known TaxonomyDomain.
func (d TaxonomyDomain) IsValid() bool {
	for _, candidate := range validTaxonomyDomains {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseTaxonomyDomain converts raw input into a TaxonomyDomain.
func ParseTaxonomyDomain(value string) (TaxonomyDomain, error) {
	for _, candidate := range validTaxonomyDomains {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid taxonomy domain %q", value)
}
