// Package voice adapts an external speech-to-text collaborator into console
// input. The core treats recognition as an opaque text producer: whatever
// tool performs the actual transcription appends lines to a feed file, and
// this package tails the file and streams transcripts to the console. When
// no feed is configured the console simply runs without voice input.
package voice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// interimPrefix marks a non-final line in the feed. Anything else is a
// final transcript.
const interimPrefix = "partial:"

// Transcript is one chunk of recognized speech. Interim transcripts only
// update the visible input text; final transcripts are interpreted and
// executed.
type Transcript struct {
	Text  string
	Final bool
}

// Source delivers incremental and final transcripts. The channel closes
// when the source stops, either from context cancellation or a watcher
// failure.
type Source interface {
	Transcripts(ctx context.Context) (<-chan Transcript, error)
}

// FeedSource tails a transcript feed file with fsnotify. Only lines
// appended after the watch starts are delivered.
type FeedSource struct {
	path   string
	logger *zap.Logger
}

// NewFeedSource returns a FeedSource for the given feed path.
func NewFeedSource(path string, logger *zap.Logger) *FeedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedSource{path: path, logger: logger}
}

// Transcripts starts watching the feed file and streams appended lines
// until ctx is cancelled. The file is created if it does not exist yet.
func (f *FeedSource) Transcripts(ctx context.Context) (<-chan Transcript, error) {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript feed: %w", err)
	}
	offset, err := file.Seek(0, io.SeekEnd)
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to seek transcript feed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start feed watcher: %w", err)
	}
	if err := watcher.Add(f.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch transcript feed: %w", err)
	}

	ch := make(chan Transcript)
	go func() {
		defer close(ch)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				offset = f.drain(ctx, offset, ch)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("Transcript feed watcher error", zap.Error(err))
			}
		}
	}()
	return ch, nil
}

// drain reads complete lines appended since offset and emits them. It
// returns the new offset, leaving any unterminated trailing line for the
// next write event.
func (f *FeedSource) drain(ctx context.Context, offset int64, ch chan<- Transcript) int64 {
	file, err := os.Open(f.path)
	if err != nil {
		f.logger.Warn("Failed to reopen transcript feed", zap.Error(err))
		return offset
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		f.logger.Warn("Failed to seek transcript feed", zap.Error(err))
		return offset
	}

	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// Partial line without a trailing newline; wait for more.
			return offset
		}
		offset += int64(len(line))

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		t := Transcript{Text: text, Final: true}
		if strings.HasPrefix(text, interimPrefix) {
			t = Transcript{Text: strings.TrimSpace(strings.TrimPrefix(text, interimPrefix))}
		}

		select {
		case ch <- t:
		case <-ctx.Done():
			return offset
		}
	}
}
