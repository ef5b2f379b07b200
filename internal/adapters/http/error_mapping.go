package httpadapter

import (
	"net/http"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrAuth), domain.IsKind(err, domain.ErrVendor):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
