package netutil

import "net"

// FreeTCPPort asks the kernel for a free open port that is ready to use.
// It panics when no port can be acquired, which only happens on a broken
// loopback interface. Intended for tests and local defaults.
func FreeTCPPort() int {
	a, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		panic(err)
	}
	l, err := net.ListenTCP("tcp", a)
	if err != nil {
		panic(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
