package util

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/flate"
)

// TickRecorder writes values as raw-deflate compressed JSON lines.
type TickRecorder struct {
	file   *os.File
	writer *flate.Writer
	enc    *json.Encoder
	mu     sync.Mutex
	closed bool
}

func NewTickRecorder(filename string) (*TickRecorder, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	writer, err := flate.NewWriter(file, flate.BestSpeed)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to create deflate writer: %w", err)
	}

	return &TickRecorder{
		file:   file,
		writer: writer,
		enc:    json.NewEncoder(writer),
	}, nil
}

func (tr *TickRecorder) Record(v any) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.closed {
		return os.ErrClosed
	}
	return tr.enc.Encode(v)
}

func (tr *TickRecorder) Close() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.closed {
		return nil
	}
	tr.closed = true

	if err := tr.writer.Close(); err != nil {
		_ = tr.file.Close()
		return err
	}
	return tr.file.Close()
}
