// Package discwait blocks until disc media is present in the optical
// drive, using udev netlink events.
package discwait
