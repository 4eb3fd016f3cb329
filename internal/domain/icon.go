package domain

// Icon is an image fetched for a hostname.
type Icon struct {
	Host        string
	ContentType string
	Data        []byte

	// Fallback marks the placeholder served when no real icon was found.
	Fallback bool
}

// FallbackIconSVG is served in place of an icon the favicon service could
// not provide. It matches the inline fallback the page swaps to on error.
const FallbackIconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="#006BFF"><rect width="24" height="24" rx="4"/></svg>`

// FallbackIcon returns the placeholder icon for host.
func FallbackIcon(host string) *Icon {
	return &Icon{
		Host:        host,
		ContentType: "image/svg+xml",
		Data:        []byte(FallbackIconSVG),
		Fallback:    true,
	}
}
