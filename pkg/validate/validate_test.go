package validate_test

import (
	"testing"

	"github.com/Astemirdum/book-exchange/pkg/validate"
	"github.com/stretchr/testify/require"
)

func TestCustomValidator_Validate(t *testing.T) {
	t.Parallel()
	type req struct {
		Username string   `validate:"required,min=3"`
		Books    []string `validate:"required,min=1,unique"`
		Status   string   `validate:"required,oneof=accepted rejected"`
	}
	tests := []struct {
		name    string
		in      req
		wantErr string
	}{
		{
			name: "ok",
			in:   req{Username: "alice", Books: []string{"a", "b"}, Status: "accepted"},
		},
		{
			name:    "short username",
			in:      req{Username: "al", Books: []string{"a"}, Status: "rejected"},
			wantErr: "username must be at least 3 long",
		},
		{
			name:    "duplicate ids and bad status",
			in:      req{Username: "alice", Books: []string{"a", "a"}, Status: "cancelled"},
			wantErr: "books must not contain duplicates; status must be one of [accepted rejected]",
		},
	}
	v := validate.NewCustomValidator()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(tt.in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}
