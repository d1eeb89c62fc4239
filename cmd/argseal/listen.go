package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

const shutdownTimeout = 10 * time.Second

// listenAndServe serves handler on addr until ctx is done.
// If addr starts with "unix://", it listens on a Unix domain socket.
// A non-nil tlsCfg wraps the listener in TLS.
func listenAndServe(ctx context.Context, addr string, handler http.Handler, tlsCfg *tls.Config) error {
	var (
		ln  net.Listener
		err error
	)
	if path, ok := strings.CutPrefix(addr, "unix://"); ok {
		ln, err = net.Listen("unix", path)
	} else {
		ln, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return err
	}
	if tlsCfg != nil {
		ln = tls.NewListener(ln, tlsCfg)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
