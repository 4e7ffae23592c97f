package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/collectorking/collectorking/pkg/errors"
)

// DecodeResponse decodes a JSON response into the target structure. The body
// is always closed. Non-200 statuses become APIErrors so callers can map
// them onto the not-found/unavailable taxonomy with errors.Is.
func DecodeResponse(service string, resp *http.Response, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
