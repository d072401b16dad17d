package openshock

import (
	"io"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const DefaultBaudRate = 115200

// SerialOpener opens ports 8N1 at the given baud rate.
func SerialOpener(baud int) PortOpener {
	return func(path string) (io.ReadWriteCloser, error) {
		port, err := serial.Open(path, &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		})
		if err != nil {
			return nil, err
		}
		return port, nil
	}
}

// SerialPortLister enumerates host ports with their USB vendor ids.
type SerialPortLister struct{}

func (SerialPortLister) ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Path:     d.Name,
			VendorId: d.VID,
			IsUSB:    d.IsUSB,
		})
	}
	return ports, nil
}
