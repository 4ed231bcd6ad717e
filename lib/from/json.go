package from

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned by JSONResponse for non-2xx responses. It carries
// the status code so callers can classify the failure without string matching.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("non-2xx status code (status=%s, url=%s)", e.Status, e.URL)
}

// JSONResponse decodes the JSON body of an HTTP response into T.
// Non-2xx responses yield a StatusError; the body is drained either way so the
// underlying connection can be reused.
func JSONResponse[T any](httpResponse *http.Response) (T, error) {
	var result T
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, httpResponse.Body)
		return result, StatusError{
			StatusCode: httpResponse.StatusCode,
			Status:     httpResponse.Status,
			URL:        httpResponse.Request.URL.String(),
		}
	}
	if err := json.NewDecoder(httpResponse.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("failed to decode response body: %w", err)
	}
	return result, nil
}
