// Package checkout drives a cart, a delivery form, and a payment method
// through to a submitted order.
//
// State machine:
//
//	DeliveryFormPending -> ReadyToSubmit -> CashSubmitting -----------> Completed
//	                                     -> OnlineAwaitingScan
//	                                          -> OnlineConfirming ----> Completed
//
// A machine cannot be constructed over an empty cart (ErrCartEmpty: the
// view redirects to the cart instead). Validation failures are surfaced
// immediately as a *BlockedError and leave the machine at its prior state;
// a missing identity at submit time is a redirect to login, not a
// validation error.
//
// The cash path issues its backend calls fire-and-forget and clears the
// cart unconditionally - a backend failure after the clear loses the
// items silently. That matches the original client; see DESIGN.md before
// hardening. The online path keeps the cart until the whole backend
// sequence succeeds and stays in OnlineConfirming on failure, with no
// automatic retry.
//
// Completed is terminal for one checkout attempt. A fresh attempt starts
// a new machine.
package checkout
