// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyActorID   ctxKey = "actor_id"
	keyActorRole ctxKey = "actor_role"
)

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithActor annotates context with the authenticated actor id and role
func WithActor(ctx context.Context, actorID, role string) context.Context {
	if actorID != "" {
		ctx = context.WithValue(ctx, keyActorID, actorID)
	}
	if role != "" {
		ctx = context.WithValue(ctx, keyActorRole, role)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// ActorID returns the actor id on the context if present
func ActorID(ctx context.Context) string {
	if v, ok := ctx.Value(keyActorID).(string); ok {
		return v
	}
	return ""
}

// ActorRole returns the actor role on the context if present
func ActorRole(ctx context.Context) string {
	if v, ok := ctx.Value(keyActorRole).(string); ok {
		return v
	}
	return ""
}
