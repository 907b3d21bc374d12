package httpclient

import "fmt"

// HTTPError is a non-2xx upstream response on a fetch.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: %s %s status=%d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: %s %s status=%d body=%s", e.Method, e.Path, e.StatusCode, e.Body)
}
