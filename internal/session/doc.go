// Package session keeps the per-browser dashboard state: the uploaded price
// and edit-count tables. Sessions live in memory only and are removed after
// an idle timeout or on request.
package session
