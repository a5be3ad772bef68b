// Package api defines the request and response messages of the Pagetally
// RPC services. Messages travel as JSON; see package apiconnect for the
// Connect handlers and clients.
package api
