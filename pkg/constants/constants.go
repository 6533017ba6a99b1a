// Package constants provides shared constants used throughout the gamesync codebase.
// This includes timeouts, per-source request delays, pagination limits, and file
// permissions that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to catalog sources
	DefaultHTTPTimeout = 30 * time.Second

	// AuthCaptureTimeout is the bounded wait for the estimate-source token capture
	AuthCaptureTimeout = 90 * time.Second

	// SyncTimeout is the default ceiling for a full sync run
	SyncTimeout = 2 * time.Hour
)

// Per-source inter-request delays. These are applied before every request
// and were chosen empirically to stay under undocumented limits; none of
// the sources publish one.
const (
	// SteamRequestDelay is the delay between Steam Web API requests
	SteamRequestDelay = 1 * time.Second

	// StorefrontRequestDelay is the delay between storefront appdetails requests.
	// The storefront is the most aggressively limited source (it answers 429
	// well before the others notice anything).
	StorefrontRequestDelay = 1500 * time.Millisecond

	// SteamSpyRequestDelay is the delay between SteamSpy requests
	SteamSpyRequestDelay = 1 * time.Second

	// HLTBRequestDelay is the base delay between estimate-source requests;
	// the client escalates it linearly per consecutive failure
	HLTBRequestDelay = 2 * time.Second

	// RemoteRequestDelay is the delay between collection service requests
	RemoteRequestDelay = 350 * time.Millisecond
)

// Estimate-source failure handling
const (
	// HLTBReauthAfter is the number of consecutive failures after which the
	// session token is recaptured
	HLTBReauthAfter = 3

	// HLTBFailureCeiling is the consecutive-failure count at which the
	// estimate layer is abandoned for the rest of the run
	HLTBFailureCeiling = 9
)

// Remote collection pagination
const (
	// RemotePageSize is the page size used when indexing the remote collection
	RemotePageSize = 100

	// RemoteMaxPages bounds pagination as a safety measure against a remote
	// that never stops returning results
	RemoteMaxPages = 200
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// DefaultLanguage is the storefront language code used when none is configured
const DefaultLanguage = "en"
