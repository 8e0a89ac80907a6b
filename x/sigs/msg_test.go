package sigs

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

func TestBumpSequenceValidate(t *testing.T) {
	cases := map[string]struct {
		Msg     bazaar.Msg
		WantErr *errors.Error
	}{
		"valid message": {
			Msg:     &BumpSequenceMsg{Increment: 1},
			WantErr: nil,
		},
		"increment too small": {
			Msg:     &BumpSequenceMsg{Increment: 0},
			WantErr: errors.ErrMsg,
		},
		"increment too big": {
			Msg:     &BumpSequenceMsg{Increment: 1001},
			WantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.Msg.Validate()
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected validation error: %s", err)
			}
		})
	}
}
