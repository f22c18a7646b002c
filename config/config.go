// Package config describes how a framewire CLI tool should be
// configured.
package config // import "github.com/go-daq/framewire/config"

import (
	"time"

	"github.com/go-daq/framewire/log"
)

// Tool describes how a framewire CLI tool should configure the Framer
// it drives.
type Tool struct {
	URI           string        // transport URI, e.g. "tcp://localhost:6000"
	MaxPacketSize int           // framewire.New's max packet size
	ExtractLast   bool          // packet selection policy
	ReadTimeout   time.Duration // default read timeout
	WriteTimeout  time.Duration // default write timeout
	Level         log.Level     // verbosity

	Args []string // additional flag arguments
}

// Default returns a Tool with the library's baseline defaults.
func Default() Tool {
	return Tool{
		MaxPacketSize: 4096,
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
		Level:         log.LvlInfo,
	}
}
