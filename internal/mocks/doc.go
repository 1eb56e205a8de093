// Package mocks provides centralized mock implementations for testing.
//
// Most mocks follow the same shape: a function field per interface method
// (e.g. IssueTokenFn) that overrides the behavior when set, plus default
// return values used otherwise. MockUserStore additionally keeps an in-memory
// user table so services can be exercised end to end without a database.
// TaskStore is built on testify/mock for tests that assert exact calls.
//
// Usage:
//
//	tokens := &mocks.MockTokenService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks
