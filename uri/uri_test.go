package uri_test

import (
	"net"
	"testing"

	"github.com/go-daq/framewire/stream/memtest"
	"github.com/go-daq/framewire/uri"
)

func TestOpenTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("could not start listener: %+v", err)
	}
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err == nil {
			c.Close()
		}
	}()

	s, err := uri.Open("tcp://" + ln.Addr().String())
	if err != nil {
		t.Fatalf("could not open tcp URI: %+v", err)
	}
	defer s.Close()
}

func TestOpenTest(t *testing.T) {
	mem := memtest.New(42)
	memtest.Register("uri-test-stream", mem)

	s, err := uri.Open("test://uri-test-stream")
	if err != nil {
		t.Fatalf("could not open test URI: %+v", err)
	}
	if s != mem {
		t.Fatalf("uri.Open did not return the registered stream")
	}
}

func TestOpenUnknownScheme(t *testing.T) {
	_, err := uri.Open("carrier-pigeon://nowhere")
	if err == nil {
		t.Fatalf("expected an error for an unknown scheme")
	}
}

func TestOpenMissingScheme(t *testing.T) {
	_, err := uri.Open("not-a-uri")
	if err == nil {
		t.Fatalf("expected an error for a string missing a scheme")
	}
}
