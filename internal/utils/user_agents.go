package utils

import (
	"fmt"

	"github.com/avct/uasurfer"
)

func UserAgentVersionToString(v uasurfer.Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// UserAgentAttrs returns slog attributes describing the browser behind a
// User-Agent header.
func UserAgentAttrs(rawUserAgent string) []any {
	if rawUserAgent == "" {
		return nil
	}

	ua := uasurfer.Parse(rawUserAgent)

	return []any{
		"browser", ua.Browser.Name.StringTrimPrefix(),
		"browser_version", UserAgentVersionToString(ua.Browser.Version),
		"os", ua.OS.Name.StringTrimPrefix(),
		"os_version", UserAgentVersionToString(ua.OS.Version),
		"device", ua.DeviceType.StringTrimPrefix(),
	}
}
