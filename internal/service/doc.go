// Package service contains the application use cases. It orchestrates the
// domain types and the store interfaces (internal/store) to implement user
// signup and login, task management and task suggestions.
//
// Services receive their dependencies through constructor injection and never
// depend on a concrete store implementation. Mutations run inside
// store.RunInTransaction so that a failure at any step leaves no partial write.
//
// Errors are returned as sentinels (or wrapped sentinels) that the API layer
// maps to HTTP status codes with errors.Is.
package service
