// Package stream decodes classifier event streams. The upstream pipeline
// (camera, landmarks, model) lives outside this program; its boundary is a
// JSONL stream of classified observations, one object per line:
//
//	{"seal": "Snake", "confidence": 0.91, "offset_ms": 1200}
//
// offset_ms is the observation time relative to the start of the recording.
// Live producers may omit it, in which case the arrival time is used.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kagesign/jutsu/internal/gesture"
)

// record is the wire shape of one JSONL line.
type record struct {
	Seal       string  `json:"seal"`
	Confidence float64 `json:"confidence"`
	OffsetMS   *int64  `json:"offset_ms"`
}

// DecodeError reports a malformed stream line.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("stream line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Source reads classifier events from a JSONL stream.
type Source struct {
	scanner *bufio.Scanner
	base    time.Time
	line    int
}

// New wraps r in a source. base anchors relative offsets; events without an
// offset are stamped with the wall clock at read time.
func New(r io.Reader, base time.Time) *Source {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Source{scanner: sc, base: base}
}

// Next returns the next event, io.EOF at end of stream, or *DecodeError for
// a malformed line. Blank lines are skipped.
func (s *Source) Next() (gesture.Event, error) {
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return gesture.Event{}, &DecodeError{Line: s.line, Err: err}
		}
		seal, err := gesture.Parse(rec.Seal)
		if err != nil {
			return gesture.Event{}, &DecodeError{Line: s.line, Err: err}
		}

		at := time.Now()
		if rec.OffsetMS != nil {
			at = s.base.Add(time.Duration(*rec.OffsetMS) * time.Millisecond)
		}
		event := gesture.Event{Seal: seal, Confidence: rec.Confidence, At: at}
		if err := event.Validate(); err != nil {
			return gesture.Event{}, &DecodeError{Line: s.line, Err: err}
		}
		return event, nil
	}
	if err := s.scanner.Err(); err != nil {
		return gesture.Event{}, err
	}
	return gesture.Event{}, io.EOF
}

// Replay feeds every event from the source to emit, sleeping between events
// to honor their recorded offsets. speed > 1 plays faster than recorded;
// speed <= 0 disables pacing entirely. emit returning an error, a decode
// error, or ctx cancellation stops the replay.
func Replay(ctx context.Context, src *Source, speed float64, emit func(gesture.Event) error) error {
	var prev time.Time
	first := true
	for {
		event, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if !first && speed > 0 {
			gap := event.At.Sub(prev)
			if gap > 0 {
				timer := time.NewTimer(time.Duration(float64(gap) / speed))
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
		}
		prev = event.At
		first = false

		if err := emit(event); err != nil {
			return err
		}
	}
}
