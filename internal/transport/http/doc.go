// Package http implements the HTTP handlers of the dashboard.
//
// Handlers stay thin: they read the session attached by the session
// middleware, decode and validate input, call the dashboard service and
// render the result with go-chi/render. Every error goes through
// errors.ErrorHandler and leaves as an RFC 7807 problem document.
//
// Routes:
//
//	GET    /api/views                              navigation
//	POST   /api/dashboard/upload                   multipart "price" and "edits"
//	POST   /api/dashboard/upload/{dataset}         raw CSV body
//	GET    /api/dashboard/overview                 Data Overview
//	GET    /api/dashboard/overview/export          summary as csv or xlsx
//	GET    /api/dashboard/visualize/columns        Visualize selector
//	GET    /api/dashboard/visualize                series points
//	GET    /api/dashboard/visualize/chart.png      rendered chart
//	POST   /api/dashboard/predict                  Predict
//	DELETE /api/dashboard/session                  end the session
//	GET    /ws                                     session events
package http
