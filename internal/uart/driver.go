package uart

import (
	"fmt"
	"io"
	"os"
	"time"

	jserial "github.com/jacobsa/go-serial/serial"
	"github.com/tarm/serial"
)

const (
	DriverTarm    = "tarm"
	DriverJacobsa = "jacobsa"
	DriverTermios = "termios"

	// StdioDevice selects the process stdin/stdout instead of a serial device.
	StdioDevice = "-"
)

const portReadTimeout = 3 * time.Second

// Opener opens the underlying transport; it is called again after read
// failures.
type Opener func() (io.ReadWriteCloser, error)

// SerialOpener returns an Opener for the device at the given baud rate.
func SerialOpener(driver, device string, baud int) (Opener, error) {
	if device == StdioDevice {
		return func() (io.ReadWriteCloser, error) {
			return stdio{}, nil
		}, nil
	}
	switch driver {
	case DriverTarm, "":
		return func() (io.ReadWriteCloser, error) {
			config := &serial.Config{
				Name:        device,
				Baud:        baud,
				ReadTimeout: portReadTimeout,
			}
			port, err := serial.OpenPort(config)
			if err != nil {
				return nil, err
			}
			return port, nil
		}, nil
	case DriverJacobsa:
		return func() (io.ReadWriteCloser, error) {
			opts := jserial.OpenOptions{
				PortName:              device,
				BaudRate:              uint(baud),
				DataBits:              8,
				StopBits:              1,
				MinimumReadSize:       1,
				ParityMode:            jserial.PARITY_NONE,
				InterCharacterTimeout: 0,
			}
			return jserial.Open(opts)
		}, nil
	case DriverTermios:
		return func() (io.ReadWriteCloser, error) {
			f, err := openTermios(device, baud)
			if err != nil {
				return nil, err
			}
			return f, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown serial driver %q", driver)
	}
}

// stdio is used when the console runs on a terminal. Close is a no-op so a
// reconnect cycle does not close the process streams.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }
