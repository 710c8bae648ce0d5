package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-admin/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-admin/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Run("Should map wrapped zerror", func(t *testing.T) {
		err := fmt.Errorf("db with tx: %w", apperr.ProductNotFoundErr.WrapParent(errors.New("not found")))

		res := apierr.New(err)

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ProductNotFoundCode, res.Code)
		assert.Nil(t, res.Details)
	})

	t.Run("Should include field errors", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		verr := v.Validate(struct {
			Name string `validate:"required"`
		}{})
		require.Error(t, verr)

		res := apierr.New(apperr.ValidationErr.WrapParent(verr))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.NotNil(t, res.Details)
		assert.Equal(t, []apierr.FieldError{{Field: "Name", Message: "field is required"}}, *res.Details)
	})

	t.Run("Should map param errors", func(t *testing.T) {
		res := apierr.New(&apierr.InvalidParamError{ParamName: "id", Err: errors.New("bad uuid")})

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, res.Message, "parameter id")
	})

	t.Run("Should hide unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("connection reset"))

		assert.Equal(t, apierr.InternalServerErr, res)
	})
}
