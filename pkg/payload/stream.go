package payload

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultStreamTimeout bounds how long ReadStream waits for the first byte
// of input before giving up.
const DefaultStreamTimeout = 1000 * time.Millisecond

// TimeoutError reports that nothing arrived on the input stream within the
// wait window.
type TimeoutError struct {
	Wait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no input arrived on stdin within %v; pipe a file in or pass one with --in", e.Wait)
}

type chunk struct {
	data []byte
	err  error
}

// ReadStream reads r to completion and returns the accumulated text. The
// timeout covers only the wait for the first chunk: once any byte arrives
// the timer is disarmed and the read runs until the stream ends, however
// long that takes. A read failure other than io.EOF abandons the
// acquisition no matter how much already arrived.
func ReadStream(ctx context.Context, r io.Reader, timeout time.Duration) (string, error) {
	chunks := make(chan chunk, 1)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			c := chunk{err: err}
			if n > 0 {
				c.data = append([]byte(nil), buf[:n]...)
			}
			chunks <- c
			if err != nil {
				return
			}
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var text strings.Builder
	armed := true
	for {
		var c chunk
		if armed {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-timer.C:
				return "", &TimeoutError{Wait: timeout}
			case c = <-chunks:
			}
		} else {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case c = <-chunks:
			}
		}

		if len(c.data) > 0 && armed {
			timer.Stop()
			armed = false
		}
		text.Write(c.data)

		if c.err == io.EOF {
			return text.String(), nil
		}
		if c.err != nil {
			return "", c.err
		}
	}
}
