package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CrimsonAS/treemodel/backend"
	"github.com/CrimsonAS/treemodel/backend/frontend"
	"github.com/CrimsonAS/treemodel/examples/servers"
	"github.com/CrimsonAS/treemodel/internal/logger"
)

var (
	serveDataset  string
	serveFrontend string
	serveServers  string
)

func init() {
	cmd := newServeCmd()
	cmd.Flags().StringVar(&serveDataset, "dataset", "", "Dataset to serve: music or servers")
	cmd.Flags().StringVar(&serveFrontend, "frontend", "", "Display program to start (default: serve on stdin/stdout)")
	cmd.Flags().StringVar(&serveServers, "servers", "", "Server list file of the servers dataset (default: demo servers)")
	rootCmd.AddCommand(cmd)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a dataset to a display program",
		Long: `The serve command serves a dataset over the treemodel connection protocol,
either on stdin and stdout or to a display program it starts. Edits made by
the display program are saved when it disconnects.

Example:
  treemodel serve
  treemodel serve --dataset servers --frontend treeview-gtk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args)
		},
	}
	return cmd
}

// dataset is a model ready to serve, with the commands it offers and how to
// persist it afterwards.
type dataset struct {
	model    *treemodel.Model
	commands *treemodel.Commands
	save     func() error
}

func openDataset(name string) (*dataset, error) {
	switch name {
	case "music":
		lib, err := openLibrary()
		if err != nil {
			return nil, err
		}
		return &dataset{
			model: lib.Model(),
			save:  func() error { return saveLibrary(lib) },
		}, nil

	case "servers":
		path := serveServers
		if path == "" {
			path = cfg.Serve.Servers
		}
		list := servers.Demo()
		if path != "" {
			var err error
			if list, err = servers.Load(path); err != nil {
				return nil, err
			}
		}
		l, err := servers.NewList(list, treemodel.WithLogger(logger.L))
		if err != nil {
			return nil, err
		}
		ds := &dataset{
			model:    l.Model(),
			commands: l.Commands(os.Stderr, logger.L),
			save:     func() error { return nil },
		}
		if path != "" {
			ds.save = func() error { return l.Save(path) }
		}
		return ds, nil

	default:
		return nil, fmt.Errorf("unknown dataset %q", name)
	}
}

func runServe(args []string) error {
	name := serveDataset
	if name == "" {
		name = cfg.Serve.Dataset
	}
	program := serveFrontend
	if program == "" {
		program = cfg.Serve.Frontend
	}

	ds, err := openDataset(name)
	if err != nil {
		return err
	}

	var conn *treemodel.Connection
	var wait func() error
	if program != "" {
		fe, err := frontend.Start(ds.model, program)
		if err != nil {
			return err
		}
		conn, wait = fe.Connection, fe.Wait
		logger.Info("frontend started", "program", program, "pid", fe.Cmd.Process.Pid)
	} else {
		conn, err = treemodel.NewConnectionSplit(ds.model, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		wait = conn.Run
	}
	conn.Commands = ds.commands
	logger.Info("serving", "dataset", name, "session", conn.Session())

	runErr := wait()
	ds.model.Detach(conn)
	if err := ds.save(); err != nil {
		return err
	}
	logger.Info("connection closed", "session", conn.Session(), "error", runErr)
	return runErr
}
