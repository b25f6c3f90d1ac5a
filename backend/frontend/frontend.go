// frontend runs an external display program connected to a treemodel.Model.
//
// The display program gets the two ends of a pipe pair as extra file
// descriptors and is told about them with a "-treemodel fd:R,W" argument: it
// reads backend messages from R and writes requests to W. Any program that
// speaks the Connection protocol can be used, so the model can be shown by a
// native toolkit without linking that toolkit into the Go process.
//
// In simple cases, an application can execute with:
//
//	fe, err := frontend.Start(model, "treeview-gtk")
//	...
//	err = fe.Wait()
package frontend

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	treemodel "github.com/CrimsonAS/treemodel/backend"
)

// Frontend is a running display program and the connection serving it.
type Frontend struct {
	Connection *treemodel.Connection
	Cmd        *exec.Cmd
}

// Arg returns the argument telling a display program which descriptors carry
// the connection. Descriptors 3 and 4 are the first two ExtraFiles.
func Arg() []string {
	return []string{"-treemodel", fmt.Sprintf("fd:%d,%d", 3, 4)}
}

// Start launches program with args and serves model to it. The connection is
// not processed yet; call Wait, or drive Connection.Process from the UI loop.
func Start(model *treemodel.Model, program string, args ...string) (*Frontend, error) {
	// backend reads rB, frontend writes wB; frontend reads rF, backend writes wF
	rB, wB, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	rF, wF, err := os.Pipe()
	if err != nil {
		rB.Close()
		wB.Close()
		return nil, err
	}

	conn, err := treemodel.NewConnectionSplit(model, rB, wF)
	if err != nil {
		closeAll(rB, wB, rF, wF)
		return nil, err
	}

	cmd := exec.Command(program, append(args, Arg()...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{rF, wB}
	if err := cmd.Start(); err != nil {
		conn.Close()
		closeAll(rF, wB)
		return nil, fmt.Errorf("start %s: %w", program, err)
	}

	// The child holds its own copies now
	closeAll(rF, wB)

	return &Frontend{Connection: conn, Cmd: cmd}, nil
}

// Wait runs the connection until the display program disconnects, then waits
// for it to exit.
func (f *Frontend) Wait() error {
	runErr := f.Connection.Run()
	waitErr := f.Cmd.Wait()
	return errors.Join(runErr, waitErr)
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		f.Close()
	}
}
