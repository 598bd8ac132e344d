// Package uci talks to an external search engine over the UCI line
// protocol. The core's side of the contract is narrow: hand the engine a
// position in exchange notation, read back a best move in coordinate
// notation, and let the caller validate that move against the legal set
// before applying it.
//
// An Engine is an explicit handle with an open/close lifecycle, passed to
// whoever performs engine round-trips; nothing here is global state.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Limits bounds one search request, mirroring the UCI "go" parameters the
// core cares about. Zero values are omitted; both zero means the engine
// searches at its default settings until it answers.
type Limits struct {
	Depth    int
	MoveTime time.Duration
}

// Engine is a handle on one external search engine. It is not safe for
// concurrent use; the session's one-move-per-turn discipline already
// serializes calls in practice.
type Engine struct {
	in      io.Writer
	out     *bufio.Scanner
	cmd     *exec.Cmd
	closers []io.Closer
	name    string
}

// Start launches an engine binary and performs the UCI handshake.
func Start(path string, args ...string) (*Engine, error) {
	cmd := exec.Command(path, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "uci: stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "uci: stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "uci: starting %s", path)
	}
	e := New(stdout, stdin)
	e.cmd = cmd
	e.closers = append(e.closers, stdin)
	if err := e.handshake(); err != nil {
		_ = cmd.Process.Kill()
		return nil, err
	}
	return e, nil
}

// New wraps an existing engine transport. Tests and custom hosts use this
// to drive a scripted dialogue; Start uses it over a subprocess's pipes.
// The caller still owns the handshake via Handshake if the transport
// expects one.
func New(r io.Reader, w io.Writer) *Engine {
	return &Engine{in: w, out: bufio.NewScanner(r)}
}

// Name returns the identity the engine announced during the handshake.
func (e *Engine) Name() string { return e.name }

// handshake sends "uci" and consumes lines until "uciok".
func (e *Engine) handshake() error {
	if err := e.send("uci"); err != nil {
		return err
	}
	for {
		line, err := e.recv()
		if err != nil {
			return err
		}
		if rest, ok := strings.CutPrefix(line, "id name "); ok {
			e.name = rest
			continue
		}
		if line == "uciok" {
			return nil
		}
	}
}

// Handshake runs the UCI identification exchange on a transport built
// with New.
func (e *Engine) Handshake() error { return e.handshake() }

// SetOption forwards a UCI option, e.g. ("Skill Level", "20") or
// ("UCI_Elo", "2000") for the strength-limited difficulty settings.
func (e *Engine) SetOption(name, value string) error {
	return e.send(fmt.Sprintf("setoption name %s value %s", name, value))
}

// NewGame tells the engine to drop state from any previous game and waits
// until it is ready.
func (e *Engine) NewGame() error {
	if err := e.send("ucinewgame"); err != nil {
		return err
	}
	if err := e.send("isready"); err != nil {
		return err
	}
	for {
		line, err := e.recv()
		if err != nil {
			return err
		}
		if line == "readyok" {
			return nil
		}
	}
}

// BestMove sends the position and blocks until the engine answers with a
// best move in coordinate notation. The returned string is NOT validated
// here; the caller must run it through the session's legality check
// before applying it.
func (e *Engine) BestMove(fen string, lim Limits) (string, error) {
	if err := e.send("position fen " + fen); err != nil {
		return "", err
	}
	goCmd := "go"
	if lim.Depth > 0 {
		goCmd += fmt.Sprintf(" depth %d", lim.Depth)
	}
	if lim.MoveTime > 0 {
		goCmd += fmt.Sprintf(" movetime %d", lim.MoveTime.Milliseconds())
	}
	if err := e.send(goCmd); err != nil {
		return "", err
	}
	for {
		line, err := e.recv()
		if err != nil {
			return "", err
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "bestmove" {
			if fields[1] == "(none)" || fields[1] == "0000" {
				return "", errors.New("uci: engine has no move")
			}
			return fields[1], nil
		}
	}
}

func (e *Engine) send(line string) error {
	_, err := io.WriteString(e.in, line+"\n")
	return errors.Wrapf(err, "uci: sending %q", line)
}

func (e *Engine) recv() (string, error) {
	if !e.out.Scan() {
		if err := e.out.Err(); err != nil {
			return "", errors.Wrap(err, "uci: reading")
		}
		return "", errors.New("uci: engine closed its output")
	}
	return strings.TrimSpace(e.out.Text()), nil
}

// Close asks the engine to quit and reaps the process. Every shutdown
// problem is reported; none aborts the rest of the teardown.
func (e *Engine) Close() error {
	var result *multierror.Error
	if err := e.send("quit"); err != nil {
		result = multierror.Append(result, err)
	}
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "uci: closing pipe"))
		}
	}
	if e.cmd != nil {
		if err := e.cmd.Wait(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "uci: waiting for engine exit"))
		}
	}
	return result.ErrorOrNil()
}
