package version

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"time"
)

const VERSION_URL = "https://raw.githubusercontent.com/bezmoradi/sinkswitch/main/internal/version/version.go"

var versionPattern = regexp.MustCompile(`VERSION\s*=\s*"v(\d+\.\d+\.\d+)"`)

// CheckVersion fetches the published version file. It reports true when the
// running build is current or the check could not be completed, otherwise
// false and the newer version.
func CheckVersion(ctx context.Context, client *http.Client, url string) (bool, string) {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return true, ""
	}
	res, err := client.Do(req)
	if err != nil {
		return true, ""
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return true, ""
	}
	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return true, ""
	}

	newVersion := extractVersion(string(bytes))
	if newVersion != "" && VERSION != newVersion {
		return false, newVersion
	}

	return true, ""
}

func extractVersion(input string) string {
	matches := versionPattern.FindStringSubmatch(input)
	if len(matches) < 2 {
		return ""
	}
	return "v" + matches[1]
}
