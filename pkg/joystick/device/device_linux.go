//go:build linux

package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

// Linux joystick API, see linux/joystick.h.
const (
	iocGetButtons uint = 0x80016a12
	iocGetName    uint = 0x80ff6a13

	jsEventButton uint8 = 0x01
	jsEventAxis   uint8 = 0x02
	jsEventInit   uint8 = 0x80

	jsEventSize = 8
)

// DevicePath returns the device file of a joystick index.
func DevicePath(index int) string {
	return fmt.Sprintf("/dev/input/js%d", index)
}

type device struct {
	file    *os.File
	index   int
	name    string
	buttons uint8
}

// Open opens the device with specified index.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(DevicePath(index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &device{file: f, index: index}
	if err := d.query(); err != nil {
		f.Close()
		return nil, fmt.Errorf("query %s: %w", DevicePath(index), err)
	}
	return d, nil
}

func (d *device) query() error {
	if errno := d.ioctl(iocGetButtons, unsafe.Pointer(&d.buttons)); errno != 0 {
		return errno
	}
	var buf [256]byte
	if errno := d.ioctl(iocGetName, unsafe.Pointer(&buf)); errno != 0 {
		return errno
	}
	if pos := bytes.IndexByte(buf[:], 0); pos >= 0 {
		d.name = string(buf[:pos])
	} else {
		d.name = string(buf[:])
	}
	return nil
}

// DetectAndOpen opens the first present device from startIndex.
// It returns nil without error when none is present.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 32; index++ {
		d, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return d, err
	}
	return nil, nil
}

func (d *device) Close() error     { return d.file.Close() }
func (d *device) Index() int       { return d.index }
func (d *device) Name() string     { return d.name }
func (d *device) ButtonCount() int { return int(d.buttons) }

// ReadEvent implements Device.
func (d *device) ReadEvent() (Event, error) {
	var buf [jsEventSize]byte
	if _, err := io.ReadFull(d.file, buf[:]); err != nil {
		return Event{}, err
	}
	return decodeEvent(buf), nil
}

func (d *device) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, d.file.Fd(), uintptr(req), uintptr(ptr))
	return errno
}

// decodeEvent decodes struct js_event: time(u32) value(s16) type(u8) number(u8).
func decodeEvent(buf [jsEventSize]byte) Event {
	ev := Event{
		Value:  int(int16(binary.LittleEndian.Uint16(buf[4:6]))),
		Number: int(buf[7]),
		Init:   buf[6]&jsEventInit != 0,
	}
	switch buf[6] &^ jsEventInit {
	case jsEventButton:
		ev.Kind = KindButton
	case jsEventAxis:
		ev.Kind = KindAxis
	}
	return ev
}
