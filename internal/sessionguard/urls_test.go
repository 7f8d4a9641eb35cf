package sessionguard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeSessionIDHint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports?a=1&sid_hint=abc&b=2", nil)

	assert.Equal(t, "abc", ConsumeSessionIDHint(req))

	assert.False(t, req.URL.Query().Has(SidHintParam))
	assert.Equal(t, "1", req.URL.Query().Get("a"))
	assert.Equal(t, "2", req.URL.Query().Get("b"))
	assert.NotContains(t, req.RequestURI, SidHintParam)
	assert.NotContains(t, req.URL.String(), SidHintParam)

	// once read, the hint is gone
	assert.Empty(t, ConsumeSessionIDHint(req))
}

func TestConsumeSessionIDHint_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reports?a=1", nil)

	assert.Empty(t, ConsumeSessionIDHint(req))
	assert.Equal(t, "a=1", req.URL.RawQuery)
	assert.Equal(t, "/reports?a=1", req.RequestURI)
}

func TestConsumeSessionIDHint_OnlyParameter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?sid_hint=abc", nil)

	assert.Equal(t, "abc", ConsumeSessionIDHint(req))
	assert.Empty(t, req.URL.RawQuery)
	assert.Equal(t, "/", req.RequestURI)
}

func TestReturnToURL(t *testing.T) {
	tests := []struct {
		name        string
		externalURL string
		target      string
		expected    string
	}{
		{"root without query", "https://app.example.com", "/", ""},
		{"root of external url with trailing slash", "https://app.example.com/", "/", ""},
		{"root with query", "https://app.example.com", "/?tab=2", "https://app.example.com/?tab=2"},
		{"other path", "https://app.example.com", "/reports", "https://app.example.com/reports"},
		{"other path with query", "https://app.example.com", "/reports?range=7d", "https://app.example.com/reports?range=7d"},
		{"uses external origin not request host", "https://app.example.com", "http://internal:8080/reports", "https://app.example.com/reports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.expected, ReturnToURL(req, tt.externalURL))
		})
	}
}

func TestSafeReturnTo(t *testing.T) {
	const externalURL = "https://app.example.com"

	tests := []struct {
		target   string
		expected string
	}{
		{"", ""},
		{"/reports?x=1", "/reports?x=1"},
		{"https://app.example.com/reports", "https://app.example.com/reports"},
		{"HTTPS://APP.EXAMPLE.COM/reports", "HTTPS://APP.EXAMPLE.COM/reports"},
		{"https://evil.example.com/", ""},
		{"http://app.example.com/", ""},
		{"//evil.example.com/", ""},
		{"/\\evil.example.com", ""},
		{"reports", ""},
		{"javascript:alert(1)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeReturnTo(tt.target, externalURL))
		})
	}
}
