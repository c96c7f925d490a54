package handler

import (
	"github.com/asaskevich/govalidator"

	dErrors "uniregistry/pkg/domain-errors"
)

// RegisterRequest is the wire shape of a registration. The caller identity is
// not part of the body; it arrives through the Authorization header.
type RegisterRequest struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
}

func validateRegisterRequest(req RegisterRequest) error {
	if !govalidator.StringLength(req.Name, "1", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "name must be 1-255 characters")
	}
	if !govalidator.StringLength(req.AccountID, "1", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "account_id must be 1-255 characters")
	}
	return nil
}
