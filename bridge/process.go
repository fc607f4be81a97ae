package bridge

import (
	"context"
	"fmt"
	"match-handler/applog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Process supervises a bridge executable started by the handler.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// StartProcess launches exePath listening on listenAddr. Cancelling ctx interrupts
// the process and kills it if it has not exited after grace.
func StartProcess(ctx context.Context, exePath, listenAddr, logFilePath string, grace time.Duration) (*Process, error) {
	cmd := exec.CommandContext(
		ctx,
		exePath,
		"--listen", listenAddr,
		"--log", logFilePath,
	)
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = grace

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start bridge process: %v", err)
	}
	applog.Debug("Bridge has started", zap.Strings("args", cmd.Args), zap.Int("pid", cmd.Process.Pid))

	p := &Process{
		cmd:  cmd,
		done: make(chan struct{}),
	}
	go func() {
		err := cmd.Wait()
		applog.Info("Bridge process exited", zap.Error(err))
		close(p.done)
	}()

	return p, nil
}

func (p *Process) GetPid() int {
	if p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// Done is closed once the process has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}
