package bazaartest

import "github.com/iov-one/bazaar"

type Handler struct {
	checkCall   int
	CheckResult bazaar.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult bazaar.DeliverResult
	DeliverErr    error
}

var _ bazaar.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	h.checkCall++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	h.deliverCall++
	return &h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
