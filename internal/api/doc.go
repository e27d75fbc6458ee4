// Package api is the client for the storefront's HTTP+JSON backend
// collaborator.
//
// The backend owns accounts, the hotel approval workflow, the food
// catalog, and order persistence; this package only issues the requests
// the client core needs and decodes the response fields it uses. Request
// and response shapes are the contract - Order in particular must
// serialize exactly as the backend's order endpoints expect, down to the
// 2-decimal string amounts and the composed multi-line address.
package api
