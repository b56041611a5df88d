// Package repository contains the raw-SQL data access layer.  This
// file defines sentinel errors reused across repositories so that
// handlers can distinguish failure modes with errors.Is.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource that belongs to someone else.  Handlers translate it into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// conflicting existing state, such as inserting a duplicate blocked
// date.  Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
