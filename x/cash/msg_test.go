package cash

import (
	"strings"
	"testing"

	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

func TestValidateSendMsg(t *testing.T) {
	addr1 := bazaartest.DecodeAddr(t, "0a0b0c0d0e0f0a0b0c0d0e0f0a0b0c0d0e0f0a0b")
	addr2 := bazaartest.DecodeAddr(t, "1a1b1c1d1e1f1a1b1c1d1e1f1a1b1c1d1e1f1a1b")

	cases := map[string]struct {
		Msg     *SendMsg
		WantErr *errors.Error
	}{
		"valid message": {
			Msg: &SendMsg{
				Src:    addr1,
				Dest:   addr2,
				Amount: coin.NewCoinp(10, 0, "FOO"),
				Memo:   "some memo message",
				Ref:    []byte("some reference"),
			},
		},
		"missing amount": {
			Msg: &SendMsg{
				Src:  addr1,
				Dest: addr2,
			},
			WantErr: errors.ErrAmount,
		},
		"zero amount": {
			Msg: &SendMsg{
				Src:    addr1,
				Dest:   addr2,
				Amount: coin.NewCoinp(0, 0, "FOO"),
			},
			WantErr: errors.ErrAmount,
		},
		"negative amount": {
			Msg: &SendMsg{
				Src:    addr1,
				Dest:   addr2,
				Amount: coin.NewCoinp(-10, 0, "FOO"),
			},
			WantErr: errors.ErrAmount,
		},
		"invalid ticker": {
			Msg: &SendMsg{
				Src:    addr1,
				Dest:   addr2,
				Amount: coin.NewCoinp(10, 0, "foobar"),
			},
			WantErr: errors.ErrCurrency,
		},
		"missing source": {
			Msg: &SendMsg{
				Dest:   addr2,
				Amount: coin.NewCoinp(10, 0, "FOO"),
			},
			WantErr: errors.ErrInput,
		},
		"missing destination": {
			Msg: &SendMsg{
				Src:    addr1,
				Amount: coin.NewCoinp(10, 0, "FOO"),
			},
			WantErr: errors.ErrInput,
		},
		"memo too long": {
			Msg: &SendMsg{
				Src:    addr1,
				Dest:   addr2,
				Amount: coin.NewCoinp(10, 0, "FOO"),
				Memo:   strings.Repeat("x", maxMemoSize+1),
			},
			WantErr: errors.ErrMsg,
		},
		"ref too long": {
			Msg: &SendMsg{
				Src:    addr1,
				Dest:   addr2,
				Amount: coin.NewCoinp(10, 0, "FOO"),
				Ref:    []byte(strings.Repeat("x", maxRefSize+1)),
			},
			WantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.Msg.Validate(); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected validation error: %+v", err)
			}
		})
	}
}

func TestDefaultSource(t *testing.T) {
	addr1 := bazaartest.DecodeAddr(t, "0a0b0c0d0e0f0a0b0c0d0e0f0a0b0c0d0e0f0a0b")
	addr2 := bazaartest.DecodeAddr(t, "1a1b1c1d1e1f1a1b1c1d1e1f1a1b1c1d1e1f1a1b")

	msg := &SendMsg{
		Dest:   addr2,
		Amount: coin.NewCoinp(10, 0, "FOO"),
	}
	withSrc := msg.DefaultSource(addr1)
	if !addr1.Equals(withSrc.Src) {
		t.Fatalf("source was not defaulted: %q", withSrc.Src)
	}

	// a source already present must not be overwritten
	same := withSrc.DefaultSource(addr2)
	if !addr1.Equals(same.Src) {
		t.Fatalf("source was overwritten: %q", same.Src)
	}
}
