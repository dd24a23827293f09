package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// EventsFile is the JSONL file name inside Options.Dir.
const EventsFile = "events.jsonl"

// Options controls the event sink. Telemetry is off unless Enabled is set.
type Options struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

var (
	mu     sync.Mutex
	sink   *zerolog.Logger
	closer io.Closer
)

// Configure replaces the active sink. Disabled options close any open sink.
func Configure(opts Options) error {
	mu.Lock()
	defer mu.Unlock()
	_ = closeLocked()
	if !opts.Enabled {
		return nil
	}
	dir := opts.Dir
	if dir == "" {
		dir = ".agent"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "telemetry: mkdir %s", dir)
	}
	path := filepath.Join(dir, EventsFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "telemetry: open %s", path)
	}
	l := zerolog.New(f).With().Timestamp().Logger()
	sink, closer = &l, f
	return nil
}

// Close detaches the sink and closes its file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	var err error
	if closer != nil {
		err = closer.Close()
	}
	sink, closer = nil, nil
	return err
}

// Enabled reports whether events are currently written.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return sink != nil
}
