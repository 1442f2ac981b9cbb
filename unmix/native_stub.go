//go:build !fcnative

package unmix

// NewNativeUnmixer reports that the native library is not linked into
// this build. Production images build with -tags fcnative after the setup
// script installs the library.
func NewNativeUnmixer() (Unmixer, error) {
	return nil, ErrNativeUnavailable
}
