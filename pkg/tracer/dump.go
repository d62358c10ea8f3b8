package tracer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"

	"k8s.io/klog/v2"
)

// Session wraps one running "apitrace dump" invocation. Stdout is the
// only long-lived resource the caller owns; it must be drained (or
// closed on abort) and ExitChannel waited on exactly once.
type Session struct {
	cmd         *exec.Cmd
	Stdout      io.ReadCloser
	ExitChannel chan error
}

// Dump starts "apitrace dump -v --color=never <tracePath>" and exposes its
// standard output as a line source. Stderr is drained to the info log at
// verbosity 1, mirroring the teacher's subprocess-logging pattern.
func (d *Driver) Dump(ctx context.Context, tracePath string) (*Session, error) {
	return d.dump(ctx, tracePath, nil)
}

// DumpCalls re-invokes apitrace restricted to a call-index range, used by
// the shader-blob dump pass. callRange is a comma/dash range expression
// such as "100-200,450".
func (d *Driver) DumpCalls(ctx context.Context, tracePath, callRange string) (*Session, error) {
	return d.dump(ctx, tracePath, []string{fmt.Sprintf("--calls=%s", callRange)})
}

func (d *Driver) dump(ctx context.Context, tracePath string, extraArgs []string) (*Session, error) {
	args := append([]string{"dump", "-v", "--color=never"}, extraArgs...)
	args = append(args, tracePath)

	cmd := d.command(ctx, args...)

	stderrReader, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}
	stdoutReader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}

	go drainStderr(tracePath, stderrReader)

	session := &Session{
		cmd:         cmd,
		Stdout:      stdoutReader,
		ExitChannel: make(chan error, 1),
	}
	go func() {
		session.ExitChannel <- cmd.Wait()
	}()

	return session, nil
}

func drainStderr(tracePath string, reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		klog.V(1).Infof("apitrace[%s] stderr: %s", tracePath, scanner.Text())
	}
}

// Kill terminates a still-running dump, used on abort/cancellation paths.
func (s *Session) Kill() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	return s.cmd.Process.Kill()
}
