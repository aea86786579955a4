// Package websocket pushes session events to open dashboard pages.
//
// Each connection belongs to the session of the page that opened it. The Hub
// groups clients by session id so an upload in one browser re-renders only
// that browser's views.
package websocket
