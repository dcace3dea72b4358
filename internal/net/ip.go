package net

import (
	"fmt"
	"log"
	"net"
	"strconv"
)

// GetOutgoingIP finds the preferred local IP address to show in the share URL.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// Without internet access, fall back to checking local interfaces.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	log.Println("No suitable local IP found, share URL uses loopback.")
	return "127.0.0.1", nil
}

// ListenPort extracts the numeric port of a listen address such as ":3050".
func ListenPort(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("listen address %q: invalid port %q", addr, p)
	}
	return port, nil
}

// ShareURL is the address a browser on the LAN connects to.
func ShareURL(listen string) (string, error) {
	port, err := ListenPort(listen)
	if err != nil {
		return "", err
	}
	ip, err := GetOutgoingIP()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ws://%s/ws", net.JoinHostPort(ip, strconv.Itoa(port))), nil
}
