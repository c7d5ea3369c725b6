package flexprice

import (
	"net/http"

	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/httpclient"
	"github.com/samber/lo"
)

// mapError turns billing API client errors into console errors. The
// backend's message becomes the hint shown to the user.
func mapError(err error) error {
	httpErr, ok := httpclient.IsHTTPError(err)
	if !ok {
		return err
	}

	var body ierr.ErrorResponse
	_ = json.Unmarshal(httpErr.Response, &body)
	hint := lo.CoalesceOrEmpty(body.Error.Display, http.StatusText(httpErr.StatusCode))

	b := ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(lo.Assign(body.Error.Details, map[string]any{
			"upstream_status": httpErr.StatusCode,
		}))

	switch httpErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return b.Mark(ierr.ErrValidation)
	case http.StatusNotFound:
		return b.Mark(ierr.ErrNotFound)
	case http.StatusConflict:
		return b.Mark(ierr.ErrAlreadyExists)
	case http.StatusForbidden:
		return b.Mark(ierr.ErrPermissionDenied)
	case http.StatusUnauthorized:
		// the console's api key was rejected, not the user's session
		return b.Mark(ierr.ErrHTTPClient)
	default:
		return b.Mark(ierr.ErrHTTPClient)
	}
}
