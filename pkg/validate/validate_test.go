package validate_test

import (
	"testing"

	"github.com/Astemirdum/bookshelf-service/pkg/validate"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  *string `validate:"required"`
	Count *int    `validate:"required"`
}

func TestCustomValidator_Validate(t *testing.T) {
	t.Parallel()
	name, count := "x", 0
	v := validate.NewCustomValidator()

	require.NoError(t, v.Validate(sample{Name: &name, Count: &count}))

	err := v.Validate(sample{Name: &name})
	require.Error(t, err)
	require.Equal(t, []string{"Count"}, validate.Fields(err))

	err = v.Validate(sample{})
	require.Equal(t, []string{"Name", "Count"}, validate.Fields(err))
}

func TestFields_NotValidationError(t *testing.T) {
	t.Parallel()
	require.Nil(t, validate.Fields(nil))
}

type tagged struct {
	Title *string `json:"title" validate:"required"`
}

func TestCustomValidator_JSONNames(t *testing.T) {
	t.Parallel()
	err := validate.NewCustomValidator().Validate(tagged{})
	require.Equal(t, []string{"title"}, validate.Fields(err))
}
