package nft

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Ensure we implement the Msg interface
var _ bazaar.Msg = (*IssueMsg)(nil)

const pathIssueMsg = "nft/issue_nft"

// Path returns the routing path for this message
func (IssueMsg) Path() string {
	return pathIssueMsg
}

// Validate makes sure that this is sensible
func (m *IssueMsg) Validate() error {
	if err := ValidateAssetID(m.Id); err != nil {
		return err
	}
	// issuer may be empty, it defaults to the main signer
	if len(m.Issuer) != 0 {
		if err := bazaar.Address(m.Issuer).Validate(); err != nil {
			return errors.Wrap(err, "issuer")
		}
	}
	if len(m.Title) == 0 {
		return errors.Wrap(errors.ErrEmpty, "title")
	}
	if len(m.Title) > maxTitleSize {
		return errors.Wrap(errors.ErrMsg, "title too long")
	}
	if len(m.Uri) > maxURISize {
		return errors.Wrap(errors.ErrMsg, "uri too long")
	}
	return nil
}

// DefaultIssuer makes sure there is an issuer.
// If it was already set, returns m.
// If none was set, returns a new IssueMsg with the issuer set
func (m *IssueMsg) DefaultIssuer(addr []byte) *IssueMsg {
	if len(m.GetIssuer()) != 0 {
		return m
	}
	return &IssueMsg{
		Id:     m.GetId(),
		Issuer: addr,
		Title:  m.GetTitle(),
		Uri:    m.GetUri(),
	}
}
