package util

import (
	"io"
	"net"
	"os"

	"github.com/sirupsen/logrus"
)

var File = &fileUtil{}

func CloseOrDie(entity io.Closer) {
	CheckAndDie(entity.Close())
}

func CheckAndDie(err error) {
	if err != nil {
		logrus.Fatalln(err)
	}
}

func CheckAndPanic(err error) {
	if err != nil {
		logrus.Panicln(err)
	}
}

func Die(message string) {
	logrus.Fatalln(message)
}

// GetIPFromAddress returns net.IP from IP:PORT string
func GetIPFromAddress(addr string) net.IP {
	host, _, e := net.SplitHostPort(addr)
	if e != nil {
		return nil
	}
	if host != "" {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

type fileUtil struct{}

func (*fileUtil) Read(path string) ([]byte, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}
	defer func() { _ = f.Close() }()

	return io.ReadAll(f)
}

func (*fileUtil) Exists(name string) bool {
	_, err := os.Stat(name)
	return !os.IsNotExist(err)
}
