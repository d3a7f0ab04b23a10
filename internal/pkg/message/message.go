// Package message holds the user-facing texts of error responses.
package message

const NotFound = "Not found."
