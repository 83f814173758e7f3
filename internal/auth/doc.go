// Package auth validates bearer JWTs and carries the resulting identity
// through the request context.
package auth
