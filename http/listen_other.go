//go:build !unix

package http

import "syscall"

func reuseAddrControl(network, address string, rc syscall.RawConn) error {
	return nil
}
