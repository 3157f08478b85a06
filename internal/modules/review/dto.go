package review

import (
	"bytes"
	"encoding/json"
)

type CreateReviewRequest struct {
	BookingID int64   `json:"bookingId" validate:"required,gt=0"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
}

// UpdateReviewRequest changes rating and/or comment. "comment": null clears the comment,
// an absent key leaves it untouched.
type UpdateReviewRequest struct {
	Rating  *int           `json:"rating"`
	Comment OptionalString `json:"comment"`
}

// OptionalString tells an absent JSON key apart from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func Some(s string) OptionalString { return OptionalString{Set: true, Value: &s} }

func Null() OptionalString { return OptionalString{Set: true} }

type ListParams struct {
	Limit  int `form:"limit" validate:"gte=0,lte=100"`
	Offset int `form:"offset" validate:"gte=0"`
}
