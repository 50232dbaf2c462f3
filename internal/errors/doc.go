// Package errors provides coded errors for the rpg-compendium service.
//
// Errors carry a Code, a user-facing Message, an optional Cause and free form
// metadata:
//
//	err := errors.NotFoundf("spell %s not found", id).
//	    WithMeta("resource", "spells")
//
// Wrapping keeps the code of an existing *Error, and maps context cancellation
// and deadlines to CodeCanceled and CodeDeadlineExceeded:
//
//	if err := doRequest(ctx); err != nil {
//	    return errors.Wrap(err, "failed to fetch spell index")
//	}
//
// Config and input validation goes through ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("BaseURL", cfg.BaseURL, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// The HTTP layer turns codes into status codes with Code.HTTPStatus, and the
// remote API client turns upstream statuses into codes with FromHTTPStatus.
//
// Search failures are not reported through this package: the search pipeline
// returns them as a failed compendium.Result so that callers can tell "nothing
// matched" apart from "something went wrong".
package errors
