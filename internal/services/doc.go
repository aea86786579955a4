// Package services implements the dashboard views on top of the data
// packages. Handlers stay thin: they resolve the session, call a service
// method and render its result.
//
// DashboardService owns no user state. Every view takes the caller's
// *session.Session explicitly, so sessions never observe each other's
// uploads:
//
//	res, err := svc.Upload(ctx, sess, session.DatasetPrice, body)
//	overview, err := svc.Overview(ctx, sess)
//	series, err := svc.Visualize(ctx, sess, "Open")
//	prediction, err := svc.Predict(ctx, forecast.PredictionInput{...})
//
// Errors are returned unwrapped enough for errors.Is / errors.As to find
// the domain cause (ErrNoDataLoaded, *dataprocessing.ParseError,
// *dataprocessing.MissingColumnError, forecast.ErrInvalidInput); the
// transport layer maps them to problem responses.
//
// HealthService reports liveness, readiness and build information.
package services
