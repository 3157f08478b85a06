package validator

import (
	"testing"

	"escaperoom/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	RoomID int64  `validate:"required,gt=0"`
	Status string `validate:"omitempty,oneof=pending confirmed"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(sample{RoomID: 1}))

	fields := Validate(sample{Status: "lost"})
	assert.Equal(t, "required", fields["RoomID"])
	assert.Equal(t, "oneof", fields["Status"])
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{RoomID: 3, Status: "pending"}))

	err := Struct(sample{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "RoomID failed required")
}
