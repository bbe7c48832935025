// Package telemetry implements the decision sink (spec.md §4.7): one
// compact JSON line per decision, an audit line under audit-only
// suppression, size-based rotation with optional gzip compression of
// retired files, and optional 1/N stdout sampling. No rotation library
// exists anywhere in the reference corpus (DESIGN.md), so rotation is
// implemented directly against os/compress-gzip.
package telemetry

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/N3mes1s/sentra/internal/metrics"
	"github.com/N3mes1s/sentra/internal/pipeline"
)

// Config mirrors config.TelemetryConfig, kept independent so this package
// never imports internal/config (spec.md §9 "no upward dependencies from
// leaf packages").
type Config struct {
	FilePath       string
	AuditFilePath  string
	MirrorStdout   bool
	SampleEveryN   int
	MaxBytes       int64
	RotateKeep     int
	RotateCompress bool
}

// AuditLine is the wire shape written under audit-only suppression
// (spec.md §6).
type AuditLine struct {
	Ts            string                    `json:"ts"`
	AuditOnly     bool                      `json:"auditOnly"`
	WouldBlock    bool                      `json:"wouldBlock"`
	WouldResponse pipeline.AnalyzeResponse `json:"wouldResponse"`
	Request       any                       `json:"request"`
}

// Sink writes decision and audit lines to their configured streams.
type Sink struct {
	cfg     Config
	metrics *metrics.Registry
	log     zerolog.Logger

	mu       sync.Mutex
	file     *os.File
	size     int64
	lineSeq  uint64
}

// New opens (creating if necessary) the configured telemetry file. A blank
// FilePath is valid: lines are mirrored to stdout only, matching local-dev
// use where no persistent sink is configured.
func New(cfg Config, reg *metrics.Registry, log zerolog.Logger) (*Sink, error) {
	s := &Sink{cfg: cfg, metrics: reg, log: log}
	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening telemetry file %s: %w", cfg.FilePath, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		s.file = f
		s.size = info.Size()
	}
	return s, nil
}

// Record writes the telemetry line for rec, and, when audit-only
// suppression occurred, a second audit line carrying the original request
// (spec.md §4.7).
func (s *Sink) Record(rec *pipeline.DecisionRecord, rawRequest any) {
	s.writeLine(s.cfg.FilePath, rec)

	if rec.AuditSuppressed {
		audit := AuditLine{
			Ts:            time.Now().UTC().Format(time.RFC3339),
			AuditOnly:     true,
			WouldBlock:    true,
			WouldResponse: rec.WouldBeOutward(),
			Request:       rawRequest,
		}
		path := s.cfg.AuditFilePath
		if path == "" {
			path = s.cfg.FilePath
		}
		s.writeLine(path, &audit)
	}
}

func (s *Sink) writeLine(path string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal telemetry line")
		s.metrics.TelemetryWriteErrorsTotal.Inc()
		return
	}
	body = append(body, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if err := s.appendLocked(body); err != nil {
			s.log.Error().Err(err).Msg("failed to write telemetry line")
			s.metrics.TelemetryWriteErrorsTotal.Inc()
		} else {
			s.metrics.TelemetryLinesTotal.Inc()
			s.metrics.LogFileSizeBytes.Set(float64(s.size))
		}
	} else {
		s.metrics.TelemetryLinesTotal.Inc()
	}

	s.lineSeq++
	if s.cfg.MirrorStdout {
		n := s.cfg.SampleEveryN
		if n <= 0 {
			n = 1
		}
		if s.lineSeq%uint64(n) == 0 {
			_, _ = os.Stdout.Write(body)
		}
	}
}

// appendLocked writes body to the telemetry file, rotating first if the
// write would exceed the configured MaxBytes. Caller holds s.mu.
func (s *Sink) appendLocked(body []byte) error {
	if s.cfg.MaxBytes > 0 && s.size+int64(len(body)) > s.cfg.MaxBytes {
		if err := s.rotateLocked(); err != nil {
			s.log.Warn().Err(err).Msg("telemetry rotation failed, continuing to append")
		}
	}
	n, err := s.file.Write(body)
	s.size += int64(n)
	return err
}

// rotateLocked renames the current file aside (optionally gzip-compressing
// it) and opens a fresh one, keeping at most RotateKeep retired files.
func (s *Sink) rotateLocked() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Close(); err != nil {
		return err
	}

	rotated := fmt.Sprintf("%s.%d", s.cfg.FilePath, time.Now().UnixNano())
	if err := os.Rename(s.cfg.FilePath, rotated); err != nil {
		return err
	}
	if s.cfg.RotateCompress {
		if err := gzipFile(rotated); err == nil {
			_ = os.Remove(rotated)
		}
	}
	s.pruneRotatedLocked()

	f, err := os.OpenFile(s.cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	s.file = f
	s.size = 0
	return nil
}

// pruneRotatedLocked removes the oldest retired telemetry files beyond
// RotateKeep. Best-effort: a failure here never blocks the hot path.
func (s *Sink) pruneRotatedLocked() {
	if s.cfg.RotateKeep <= 0 {
		return
	}
	dir := filepath.Dir(s.cfg.FilePath)
	base := filepath.Base(s.cfg.FilePath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var retired []string
	for _, e := range entries {
		name := e.Name()
		if len(name) > len(base) && name[:len(base)] == base && name[len(base)] == '.' {
			retired = append(retired, name)
		}
	}
	if len(retired) <= s.cfg.RotateKeep {
		return
	}
	// Lexicographic order matches the nanosecond-timestamp suffix order.
	for i := 0; i < len(retired)-s.cfg.RotateKeep; i++ {
		_ = os.Remove(filepath.Join(dir, retired[i]))
	}
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	defer gw.Close()
	_, err = io.Copy(gw, in)
	return err
}

// Close flushes and closes the underlying telemetry file, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
