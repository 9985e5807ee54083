package model

import "errors"

var (
	// ErrDecode indicates an identity token that could not be parsed at all.
	ErrDecode = errors.New("identity token malformed")
	// ErrSchema indicates a token that parsed but is missing required claims.
	ErrSchema = errors.New("identity token missing required claims")
	// ErrInvalidKeyPair indicates an attempt to commit an expired ephemeral key pair.
	ErrInvalidKeyPair = errors.New("invalid ephemeral key pair")
	// ErrNonceMismatch indicates the token nonce does not match the in-flight
	// ephemeral key pair, or no key pair is committed at all.
	ErrNonceMismatch = errors.New("ephemeral key pair not found or nonce mismatch")
	// ErrInvalidToken indicates a token that failed validation during account switch.
	ErrInvalidToken = errors.New("invalid identity token")
	// ErrSaltResolution indicates the salt service rejected or failed the request.
	// There is never a fallback salt: a wrong salt would silently derive a
	// different address.
	ErrSaltResolution = errors.New("salt resolution failed")
	// ErrNotFound is returned by stores when an entity does not exist.
	ErrNotFound = errors.New("not found")
)
