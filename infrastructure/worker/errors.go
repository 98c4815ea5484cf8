package worker

import (
	"pursuit-backend/pkg/errors"
)

func errBadPayload(t RequestType) error {
	return errors.NewValidationError("unexpected payload for request type " + string(t))
}
