package services

import "errors"

// Dashboard service errors
var (
	// ErrNoDataLoaded is returned by views that need a price table before one was uploaded
	ErrNoDataLoaded = errors.New("please upload Bitcoin data first on the 'Upload Data' page")

	// ErrUnknownDataset is returned for an upload target other than price or edits
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrUnsupportedFormat is returned for an export format other than csv or xlsx
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrNoFiles is returned when an upload form carries neither file
	ErrNoFiles = errors.New("no files uploaded")
)
