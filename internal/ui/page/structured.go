package page

import (
	"encoding/json"

	"github.com/jsamuelsen/marketing-site/internal/domain"
)

// StructuredDataType is the script type of the JSON-LD graph.
const StructuredDataType = "application/ld+json"

// Person is the schema.org graph describing the site owner.
type Person struct {
	Context     string         `json:"@context"`
	Type        string         `json:"@type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	JobTitle    string         `json:"jobTitle,omitempty"`
	Email       string         `json:"email"`
	Address     *PostalAddress `json:"address,omitempty"`
	SameAs      []string       `json:"sameAs"`
	WorksFor    []Organization `json:"worksFor"`
	Image       string         `json:"image,omitempty"`
	URL         string         `json:"url,omitempty"`
}

// PostalAddress is a schema.org PostalAddress.
type PostalAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality"`
}

// Organization is a schema.org Organization.
type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StructuredData builds the Person graph for site. The output depends only
// on its inputs, so repeated calls encode to identical bytes.
func StructuredData(site *domain.Site, origin string) Person {
	p := Person{
		Context:     "https://schema.org",
		Type:        "Person",
		Name:        site.Personal.Name,
		Description: site.Personal.Bio,
		JobTitle:    site.Personal.Tagline,
		Email:       site.Personal.Email,
		SameAs:      make([]string, 0, len(site.SocialLinks)),
		WorksFor:    make([]Organization, 0, len(site.Businesses)),
		Image:       site.Personal.Photo,
		URL:         origin,
	}

	if site.Personal.Location != "" {
		p.Address = &PostalAddress{Type: "PostalAddress", AddressLocality: site.Personal.Location}
	}

	for _, l := range site.SocialLinks {
		p.SameAs = append(p.SameAs, l.URL)
	}

	for _, b := range site.Businesses {
		p.WorksFor = append(p.WorksFor, Organization{Type: "Organization", Name: b.Name, URL: b.URL})
	}

	return p
}

// EncodeStructuredData renders the graph as the script body.
func EncodeStructuredData(site *domain.Site, origin string) (string, error) {
	out, err := json.Marshal(StructuredData(site, origin))
	if err != nil {
		return "", err
	}

	return string(out), nil
}
