package apperr

import "github.com/tuanvumaihuynh/catalog-admin/pkg/zerror"

const (
	ValidationErrorCode     = "VALIDATION_FAILED"
	ProductNotFoundCode     = "PRODUCT_NOT_FOUND"
	ServiceTypeNotFoundCode = "SERVICE_TYPE_NOT_FOUND"
	ServiceUnavailableCode  = "SERVICE_UNAVAILABLE"
)

var (
	ValidationErr          = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr     = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ServiceTypeNotFoundErr = zerror.NewBadRequest(ServiceTypeNotFoundCode, "service type not found")
	ServiceUnavailableErr  = zerror.NewServiceUnavailable(ServiceUnavailableCode, "service unavailable")
)
