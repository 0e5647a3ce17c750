// Package dto contains the request payloads bound by handlers and the
// response shapes for use case results that have no JSON form of their own.
//
// Naming: <Action><Resource>Request for payloads, <Resource>Response for
// responses, each with a From... constructor.
package dto
