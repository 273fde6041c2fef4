package scanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// Resolver resolves devices through scanimage
type Resolver struct {
	runner        runner.CommandRunner
	scanimagePath string
}

var _ interfaces.DeviceResolver = (*Resolver)(nil)

// NewResolver creates a scanimage backed device resolver
func NewResolver(r runner.CommandRunner, scanimagePath string) *Resolver {
	return &Resolver{runner: r, scanimagePath: scanimagePath}
}

// Resolve implements interfaces.DeviceResolver
func (d *Resolver) Resolve(ctx context.Context, explicit string) (string, error) {
	return ResolveDevice(ctx, d.runner, d.scanimagePath, explicit)
}

// ListDevices runs `scanimage -L` and returns every device it reports
func ListDevices(ctx context.Context, r runner.CommandRunner, scanimagePath string) ([]string, error) {
	res, err := r.Run(ctx, runner.Invocation{Name: scanimagePath, Args: []string{"-L"}})
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeDevice, "failed to list scanner devices")
	}
	return ParseDeviceList(string(res.Stdout))
}

// ResolveDevice returns explicit unchanged when set; otherwise the single
// device reported by scanimage. Zero or several candidates are fatal.
func ResolveDevice(ctx context.Context, r runner.CommandRunner, scanimagePath, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	devices, err := ListDevices(ctx, r, scanimagePath)
	if err != nil {
		return "", err
	}
	return pickSingle(devices)
}

// ParseDeviceList extracts device identifiers from `scanimage -L` output.
// A line looks like: device `epson2:libusb:001:004' is a Epson flatbed scanner
func ParseDeviceList(output string) ([]string, error) {
	if strings.Contains(output, constants.NoScannersMarker) {
		return nil, utils.NewDeviceError(constants.ErrMsgNoDevice, utils.ErrNoDeviceFound)
	}

	var devices []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, constants.DeviceLinePrefix) {
			continue
		}
		device, ok := quotedToken(line)
		if !ok {
			return nil, utils.NewDeviceError(fmt.Sprintf("malformed device line: %q", line), utils.ErrNoDeviceFound)
		}
		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, utils.NewDeviceError(constants.ErrMsgNoDevice, utils.ErrNoDeviceFound)
	}
	return devices, nil
}

func pickSingle(devices []string) (string, error) {
	switch len(devices) {
	case 0:
		return "", utils.NewDeviceError(constants.ErrMsgNoDevice, utils.ErrNoDeviceFound)
	case 1:
		return devices[0], nil
	default:
		return "", utils.NewDeviceError(constants.ErrMsgAmbiguousDevice, utils.ErrAmbiguousDevice).
			WithContext("candidates", devices)
	}
}

// quotedToken returns the text between SANE's `...' quotes; '...' and "..." are accepted too
func quotedToken(line string) (string, bool) {
	start := strings.IndexAny(line, "`'\"")
	if start < 0 {
		return "", false
	}
	closing := line[start]
	if closing == '`' {
		closing = '\''
	}
	end := strings.IndexByte(line[start+1:], closing)
	if end <= 0 {
		return "", false
	}
	return line[start+1 : start+1+end], true
}
