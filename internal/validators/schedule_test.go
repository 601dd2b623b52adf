package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotPayload struct {
	Date string `validate:"required,isodate"`
	Time string `validate:"required,hhmm"`
}

func TestScheduleTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	cases := []struct {
		name  string
		in    slotPayload
		valid bool
	}{
		{"ok", slotPayload{"2024-06-01", "10:00"}, true},
		{"bad date", slotPayload{"2024-13-01", "10:00"}, false},
		{"slashes", slotPayload{"2024/06/01", "10:00"}, false},
		{"bad hour", slotPayload{"2024-06-01", "25:00"}, false},
		{"short time", slotPayload{"2024-06-01", "9:00"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
