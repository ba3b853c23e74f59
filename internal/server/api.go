package server

import (
	"github.com/Decentr-net/agora/internal/service"
)

// Error ...
type Error struct {
	Error string `json:"error"`
}

// MutationRequest is a body of add, update, updateFor and delete verbs.
type MutationRequest[T any] struct {
	Wallet    string `json:"wallet"`
	Data      T      `json:"data"`
	Signature string `json:"signature"`
}

// QueryRequest is a body of queryOne and queryList verbs.
type QueryRequest struct {
	Wallet   string           `json:"wallet"`
	Selector service.Selector `json:"selector"`
}

// EmptyResponse is returned by verbs which return nothing.
type EmptyResponse struct{}
