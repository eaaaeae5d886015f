package delivery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLink_App(t *testing.T) {
	got := BuildLink(LinkStyleApp, "919876543210", "Total: ₹10 & thanks\nBye")

	assert.Equal(t, "whatsapp://send?phone=919876543210&text=Total%3A%20%E2%82%B910%20%26%20thanks%0ABye", got)
}

func TestBuildLink_RoundTrips(t *testing.T) {
	text := "*Sharma Kirana*\nTea x 2 = ₹40.00\n100% + tax"

	u, err := url.Parse(BuildLink(LinkStyleWeb, "919876543210", text))
	require.NoError(t, err)

	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/919876543210", u.Path)
	assert.Equal(t, text, u.Query().Get("text"))
}

func TestParseLinkStyle(t *testing.T) {
	assert.Equal(t, LinkStyleWeb, ParseLinkStyle(" WEB "))
	assert.Equal(t, LinkStyleApp, ParseLinkStyle("app"))
	assert.Equal(t, LinkStyleApp, ParseLinkStyle(""))
}
