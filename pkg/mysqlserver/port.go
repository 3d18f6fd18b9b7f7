package mysqlserver

import "net"

// RandomPort returns a TCP port that was available at the time of the call,
// by binding port 0 and reading back the OS-assigned port.
//
// The probe socket is released before mysqld binds the port, so another
// process may grab it in between. This race is inherent to handing a port
// number to a subprocess and is accepted rather than worked around.
func RandomPort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
