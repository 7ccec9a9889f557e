package firebase

import "errors"

var (
	ErrNetworkDisabled = errors.New("database network is disabled")
	ErrClosed          = errors.New("client is closed")
	ErrNotFound        = errors.New("document not found")
	ErrInvalidPath     = errors.New("invalid document path")
	ErrUnavailable     = errors.New("service client unavailable")

	ErrEmulatorAlreadyConnected = errors.New("emulator already connected")

	ErrSigningUnavailable = errors.New("url signing is not configured")
	ErrInvalidEvent       = errors.New("invalid analytics event")
)

func IsErrNetworkDisabled(err error) bool {
	return errors.Is(err, ErrNetworkDisabled)
}

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
