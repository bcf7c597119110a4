package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// Dialer opens sessions against a remote object store.
type Dialer interface {
	Connect(ctx context.Context) (Session, error)
	Name() string
}

// Session is a single open connection to the remote store. Close releases the
// underlying network handles and must be called on every exit path.
type Session interface {
	Store(ctx context.Context, remotePath string, reader io.Reader, size int64) error
	Close() error
}

type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to %s: %v", e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TransferError reports a non-success status returned by the remote store.
type TransferError struct {
	Path   string
	Status string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("storing %s: status %s", e.Path, e.Status)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
