package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"strconv"
	"sync"
	"time"

	"github.com/imgcatalog/backend/internal/config"
	"github.com/imgcatalog/backend/pkg/logger"
	"github.com/jlaffaye/ftp"
)

type FTPClient struct {
	cfg config.FTPConfig
}

func NewFTPClient(cfg config.FTPConfig) *FTPClient {
	return &FTPClient{cfg: cfg}
}

func (f *FTPClient) Name() string {
	return config.StorageDriverFTP
}

func (f *FTPClient) Address() string {
	return net.JoinHostPort(f.cfg.Host, strconv.Itoa(f.cfg.Port))
}

// Connect dials the control connection and logs in. The returned session is
// torn down when ctx is cancelled, aborting any transfer in flight.
func (f *FTPClient) Connect(ctx context.Context) (Session, error) {
	address := f.Address()
	dialer := newPhaseDialer(ctx, f.cfg.Timeouts)

	logger.Info("ftp_connecting", map[string]interface{}{
		"address": address,
	})

	conn, err := ftp.Dial(address, ftp.DialWithDialFunc(dialer.dial))
	if err != nil {
		dialer.closeAll()
		logger.Error("ftp_connect_failed", err, map[string]interface{}{
			"address": address,
		})
		return nil, &ConnectionError{Address: address, Err: err}
	}

	if err := conn.Login(f.cfg.Username, f.cfg.Password); err != nil {
		_ = conn.Quit()
		dialer.closeAll()
		logger.Error("ftp_login_failed", err, map[string]interface{}{
			"address":  address,
			"username": f.cfg.Username,
		})
		return nil, &ConnectionError{Address: address, Err: err}
	}

	session := &ftpSession{conn: conn, dialer: dialer, address: address}
	session.stopWatch = context.AfterFunc(ctx, func() {
		logger.Warn("ftp_session_cancelled", map[string]interface{}{
			"address": address,
		})
		dialer.closeAll()
	})
	return session, nil
}

type ftpSession struct {
	conn      *ftp.ServerConn
	dialer    *phaseDialer
	address   string
	stopWatch func() bool
	closeOnce sync.Once
	closeErr  error
}

func (s *ftpSession) Store(ctx context.Context, remotePath string, reader io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.conn.Stor(remotePath, reader)
	if err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) {
			err = &TransferError{
				Path:   remotePath,
				Status: fmt.Sprintf("%d %s", protoErr.Code, protoErr.Msg),
				Err:    err,
			}
		}
		logger.Error("ftp_upload_failed", err, map[string]interface{}{
			"address":     s.address,
			"remote_path": remotePath,
			"size":        size,
		})
		return err
	}

	logger.Info("ftp_upload_success", map[string]interface{}{
		"address":     s.address,
		"remote_path": remotePath,
		"size":        size,
	})
	return nil
}

func (s *ftpSession) Close() error {
	s.closeOnce.Do(func() {
		if s.stopWatch != nil {
			s.stopWatch()
		}
		s.closeErr = s.conn.Quit()
		s.dialer.closeAll()
	})
	return s.closeErr
}

// phaseDialer hands out control and data connections for one FTP session.
// The first dial is the control connection; every later dial is a data
// connection and gets the data timeouts instead.
type phaseDialer struct {
	ctx      context.Context
	timeouts config.FTPTimeouts

	mu    sync.Mutex
	dials int
	conns []net.Conn
}

func newPhaseDialer(ctx context.Context, timeouts config.FTPTimeouts) *phaseDialer {
	return &phaseDialer{ctx: ctx, timeouts: timeouts}
}

func (d *phaseDialer) dial(network, address string) (net.Conn, error) {
	d.mu.Lock()
	control := d.dials == 0
	d.dials++
	d.mu.Unlock()

	connectTimeout, ioTimeout := d.timeouts.Connect, d.timeouts.Read
	if !control {
		connectTimeout, ioTimeout = d.timeouts.DataConnect, d.timeouts.DataRead
	}

	netDialer := net.Dialer{Timeout: connectTimeout}
	conn, err := netDialer.DialContext(d.ctx, network, address)
	if err != nil {
		return nil, err
	}

	wrapped := &deadlineConn{Conn: conn, timeout: ioTimeout}
	d.mu.Lock()
	d.conns = append(d.conns, wrapped)
	d.mu.Unlock()
	return wrapped, nil
}

func (d *phaseDialer) closeAll() {
	d.mu.Lock()
	conns := d.conns
	d.conns = nil
	d.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// deadlineConn pushes the I/O deadline forward before every read and write so
// that a stalled peer fails the operation after timeout of inactivity.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(p)
}
