package notify

import "net/url"

const waBaseURL = "https://wa.me/"

// Link pairs a contact with its prefilled WhatsApp deep link.
type Link struct {
	Contact string `json:"contact"`
	URL     string `json:"url"`
}

// WhatsAppLink builds a wa.me deep link with the message prefilled. Pure
// string work, no network.
func (s *service) WhatsAppLink(contact, message string) string {
	query := url.Values{}
	query.Set("text", message)
	return waBaseURL + s.normalizer.Digits(contact) + "?" + query.Encode()
}

// BulkWhatsAppLinks builds one link per contact.
func (s *service) BulkWhatsAppLinks(contacts []string, message string) []Link {
	links := make([]Link, 0, len(contacts))
	for _, contact := range contacts {
		links = append(links, Link{
			Contact: contact,
			URL:     s.WhatsAppLink(contact, message),
		})
	}
	return links
}
