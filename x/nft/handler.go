package nft

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x"
	"github.com/tendermint/tendermint/libs/common"
)

// Tag keys emitted on successful issuance
const (
	TagAsset    = "asset"
	TagOwner    = "owner"
	TagMetadata = "metadata"
)

const issueTxCost int64 = 300

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, control Controller, attacher Attacher) {
	r.Handle(&IssueMsg{}, NewIssueHandler(auth, control, attacher))
}

// RegisterQuery will register the nft buckets for raw queries
func RegisterQuery(qr bazaar.QueryRouter) {
	NewTokenBucket().Register("tokens", qr)
	NewMetadataBucket().Register("tokenmeta", qr)
	NewHoldingBucket().Register("holdings", qr)
}

// IssueHandler creates tokens and attaches their metadata
type IssueHandler struct {
	auth     x.Authenticator
	control  Controller
	attacher Attacher
}

var _ bazaar.Handler = IssueHandler{}

// NewIssueHandler creates a handler for IssueMsg
func NewIssueHandler(auth x.Authenticator, control Controller, attacher Attacher) IssueHandler {
	return IssueHandler{
		auth:     auth,
		control:  control,
		attacher: attacher,
	}
}

// Check verifies the message and the issuer authorization
func (h IssueHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: issueTxCost}, nil
}

// Deliver mints the token and attaches metadata in one transition.
// The attacher runs exactly once and its failure aborts everything.
func (h IssueHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	issuer := bazaar.Address(msg.Issuer)

	if err := h.control.Issue(db, msg.Id, issuer); err != nil {
		return nil, err
	}

	meta := &TokenMetadata{
		Title:        msg.Title,
		Uri:          msg.Uri,
		Creator:      issuer,
		CreatorShare: FullShare,
	}
	if err := h.attacher.Attach(db, msg.Id, meta); err != nil {
		return nil, errors.Wrap(err, "attach metadata")
	}

	res := &bazaar.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte(TagAsset), Value: msg.Id},
			{Key: []byte(TagOwner), Value: []byte(issuer.String())},
			{Key: []byte(TagMetadata), Value: msg.Id},
		},
	}
	return res, nil
}

func (h IssueHandler) validate(ctx bazaar.Context, tx bazaar.Tx) (*IssueMsg, error) {
	var msg IssueMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	withIssuer := msg.DefaultIssuer(signer.Address())
	if len(withIssuer.Issuer) == 0 {
		return nil, errors.Wrap(ErrAuthorityMismatch, "no signer to issue for")
	}
	if !h.auth.HasAddress(ctx, withIssuer.Issuer) {
		return nil, errors.Wrap(ErrAuthorityMismatch, "issuer did not sign")
	}
	return withIssuer, nil
}
