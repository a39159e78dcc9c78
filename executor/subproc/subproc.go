package subproc

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	osabridge "github.com/osakit/osabridge"
)

// maxFrameSize bounds one response line from the helper.
const maxFrameSize = 8 << 20

// Executor drives a long-lived helper process that holds live script
// objects and answers one function call per message. Frames are
// newline-delimited JSON over the helper's stdin/stdout; stderr is
// drained to the logger.
//
// The protocol is strictly synchronous: one request in flight at a
// time, each call blocking until the helper answers. No timeout is
// applied; a hung helper hangs the caller.
type Executor struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *bufio.Scanner
	log   *zap.Logger

	// mu serializes the request/response exchange.
	mu     sync.Mutex
	closed bool
}

// Options configures the helper process.
type Options struct {
	// Command is the helper executable. Required.
	Command string

	// Args are passed to the helper verbatim.
	Args []string

	// Env is the helper's environment; nil inherits the host's.
	Env []string

	// Logger defaults to the package logger.
	Logger *zap.Logger
}

// Start launches the helper process and returns an executor bound to
// its stdio.
func Start(opts Options) (*Executor, error) {
	if opts.Command == "" {
		return nil, fmt.Errorf("helper command is empty")
	}

	log := opts.Logger
	if log == nil {
		log = Logger()
	}

	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Env = opts.Env

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start helper %q: %w", opts.Command, err)
	}

	log.Info("helper started",
		zap.String("command", opts.Command),
		zap.Int("pid", cmd.Process.Pid))

	go drainStderr(stderr, log)

	e := newExecutor(stdin, stdout, log)
	e.cmd = cmd
	return e, nil
}

// newExecutor wires an executor over raw pipes. Start uses it with the
// helper's stdio; tests use it with in-memory pipes.
func newExecutor(w io.WriteCloser, r io.Reader, log *zap.Logger) *Executor {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxFrameSize)
	return &Executor{
		stdin: w,
		out:   scanner,
		log:   log,
	}
}

func drainStderr(r io.Reader, log *zap.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Warn("helper stderr", zap.String("line", scanner.Text()))
	}
}

// roundTrip sends one request frame and reads the matching response.
func (e *Executor) roundTrip(fn string, args ...any) (*response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("executor closed")
	}

	req := request{
		ID:   uuid.NewString(),
		Fn:   fn,
		Args: args,
	}

	frame, err := sonic.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	frame = append(frame, '\n')

	e.log.Debug("request", zap.String("fn", fn), zap.String("id", req.ID))

	if _, err := e.stdin.Write(frame); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	if !e.out.Scan() {
		if err := e.out.Err(); err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return nil, fmt.Errorf("helper closed its output")
	}

	var resp response
	if err := sonic.Unmarshal(e.out.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("helper: %s", resp.Error)
	}
	return &resp, nil
}

// GetApplication implements osabridge.Executor.
func (e *Executor) GetApplication(name string) (osabridge.ObjectRef, error) {
	resp, err := e.roundTrip(fnGetApplication, name)
	if err != nil {
		return osabridge.ObjectRef{}, err
	}
	if resp.Object == nil {
		return osabridge.ObjectRef{}, fmt.Errorf("helper answered application lookup with a non-object")
	}
	return osabridge.ObjectRef{
		Handle: osabridge.Handle(resp.Object.ObjID),
		Class:  resp.Object.ClassName,
	}, nil
}

// CallMethod implements osabridge.Executor.
func (e *Executor) CallMethod(target osabridge.Handle, name string, args []any, opts map[string]any) (osabridge.Result, error) {
	resp, err := e.roundTrip(fnCallMethod, int64(target), name, lowerArgs(args), lowerOpts(opts))
	if err != nil {
		return osabridge.Result{}, err
	}
	return liftResult(resp), nil
}

// GetProperty implements osabridge.Executor.
func (e *Executor) GetProperty(target osabridge.Handle, name string) (osabridge.Result, error) {
	resp, err := e.roundTrip(fnGetProperty, int64(target), name)
	if err != nil {
		return osabridge.Result{}, err
	}
	return liftResult(resp), nil
}

// SetProperties implements osabridge.Executor.
func (e *Executor) SetProperties(target osabridge.Handle, props map[string]any) error {
	_, err := e.roundTrip(fnSetProperties, int64(target), lowerOpts(props))
	return err
}

// CallSelf implements osabridge.Executor.
func (e *Executor) CallSelf(target osabridge.Handle, args []any, opts map[string]any) (osabridge.Result, error) {
	resp, err := e.roundTrip(fnCallSelf, int64(target), lowerArgs(args), lowerOpts(opts))
	if err != nil {
		return osabridge.Result{}, err
	}
	return liftResult(resp), nil
}

// ReleaseObject implements osabridge.Executor.
func (e *Executor) ReleaseObject(h osabridge.Handle) error {
	_, err := e.roundTrip(fnReleaseObject, int64(h))
	return err
}

// Close shuts the helper's stdin and waits for it to exit.
func (e *Executor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	if err := e.stdin.Close(); err != nil {
		return fmt.Errorf("close helper stdin: %w", err)
	}
	if e.cmd != nil {
		if err := e.cmd.Wait(); err != nil {
			return fmt.Errorf("helper exit: %w", err)
		}
		e.log.Info("helper exited", zap.Int("pid", e.cmd.Process.Pid))
	}
	return nil
}
