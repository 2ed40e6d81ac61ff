package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// staticTokenSource holds the token obtained by a CLI login.
type staticTokenSource struct {
	token string
}

func (s *staticTokenSource) Token(ctx context.Context) (string, error) { return s.token, nil }

type commandLine struct {
	conf   *core.Config
	client *backend.Client
	tokens *staticTokenSource
	store  session.Store
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  ping - check that the backend is reachable")
	fmt.Println("  export -resource sekolah|kelas|guru|siswa -out FILE -email EMAIL - export a list as XLSX (password prompted)")
	fmt.Println("  dropsession -id SESSION_ID - force-expire a session")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportResource := exportCmd.String("resource", "", "sekolah, kelas, guru or siswa")
	exportOut := exportCmd.String("out", "", "Output file path.")
	exportEmail := exportCmd.String("email", "", "The admin account to export as. The password will be prompted next.")

	dropSessionCmd := flag.NewFlagSet("dropsession", flag.ExitOnError)
	dropSessionID := dropSessionCmd.String("id", "", "The session id to drop.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[1] {
	case "ping":
		return cli.ping(ctx)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportResource == "" || *exportOut == "" || *exportEmail == "" {
			exportCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(ctx, *exportResource, *exportOut, *exportEmail, string(pwd))
	case "dropsession":
		if err := dropSessionCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *dropSessionID == "" {
			dropSessionCmd.Usage()
			return errHelp
		}
		return cli.dropSession(ctx, *dropSessionID)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) ping(ctx context.Context) error {
	if err := cli.client.Ping(ctx); err != nil {
		return err
	}
	fmt.Println("backend: ok")
	return nil
}

func (cli *commandLine) dropSession(ctx context.Context, id string) error {
	if cli.store == nil {
		return errors.New("dropsession needs a configured redis store")
	}
	if err := cli.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	fmt.Println("session dropped")
	return nil
}
