package delivery

import (
	"net/url"
	"strings"
)

type LinkStyle string

const (
	// LinkStyleApp targets the installed app through its own URI scheme
	LinkStyleApp LinkStyle = "app"
	// LinkStyleWeb targets the wa.me redirector, which opens the app or the web client
	LinkStyleWeb LinkStyle = "web"
)

// ParseLinkStyle returns LinkStyleApp for anything other than "web"
func ParseLinkStyle(s string) LinkStyle {
	if strings.EqualFold(strings.TrimSpace(s), string(LinkStyleWeb)) {
		return LinkStyleWeb
	}
	return LinkStyleApp
}

// BuildLink builds the WhatsApp deep link for a normalized number and message
func BuildLink(style LinkStyle, number, text string) string {
	encoded := encodeComponent(text)
	if style == LinkStyleWeb {
		return "https://wa.me/" + number + "?text=" + encoded
	}
	return "whatsapp://send?phone=" + number + "&text=" + encoded
}

// encodeComponent percent-encodes s for use inside a query value, with spaces as %20
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
