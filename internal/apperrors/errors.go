package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the requested resource.
var ErrForbidden = errors.New("forbidden")

// ErrMonthInProgress indicates a point-in-time generation was requested for the
// still-open calendar month. The caller must wait until the month closes.
var ErrMonthInProgress = errors.New("statement month is still in progress")

// ErrUpstreamFetch indicates a partner microservice call failed or errored.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

// ErrNoTransactions indicates the transactions service returned zero records
// for a refresh of the live month.
var ErrNoTransactions = errors.New("no transactions found")

// ErrPersistence indicates a database write failed. Generation paths degrade to
// returning the in-memory statement instead of surfacing this to the caller.
var ErrPersistence = errors.New("persistence failure")
