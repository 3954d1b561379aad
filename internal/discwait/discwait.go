package discwait

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"discrescue/internal/logging"
)

// WaitForMedia blocks until the kernel reports readable disc media in the
// given device, or ctx expires. An empty device accepts media in any
// optical drive.
//
// Detection rides the udev netlink socket, so no polling and no udev rules
// that call back into the program as root.
func WaitForMedia(ctx context.Context, device string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.NewComponentLogger(logger, "discwait")

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect netlink socket: %w", err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, mediaMatcher())
	defer close(quit)

	logger.Info("waiting for disc media", logging.String("device", device))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case uevent := <-queue:
			name := deviceName(uevent)
			if name == "" {
				continue
			}
			if device != "" && name != device {
				logger.Debug("ignoring media in other drive", logging.String("device", name))
				continue
			}
			logger.Info("disc media detected",
				logging.String("device", name),
				logging.String("action", string(uevent.Action)),
			)
			return nil
		case err := <-errs:
			logger.Warn("udev monitor error", logging.Error(err))
		}
	}
}

// mediaMatcher matches insertion events for optical media:
// SUBSYSTEM=block, ID_CDROM=1, ID_CDROM_MEDIA=1, ACTION=change|add.
func mediaMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

// deviceName gets the device path from a uevent, falling back to the last
// DEVPATH component when DEVNAME is absent.
func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
