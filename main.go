package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fappels/zapplica-plugin-honeywellbcr/bcr"
	"github.com/fappels/zapplica-plugin-honeywellbcr/bridge"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app     = kingpin.New("honeywellbcr", "Talk to the HoneywellBCR barcode reader plugin of a native host.")
	url     = app.Flag("url", "Websocket URL of the native plugin host.").Envar("HONEYWELLBCR_URL").Default("ws://127.0.0.1:8765/bridge").String()
	timeout = app.Flag("timeout", "How long to wait for one-shot answers from the plugin.").Envar("HONEYWELLBCR_TIMEOUT").Default("5s").Duration()
	debug   = app.Flag("debug", "Enable debug logging.").Bool()

	initCmd    = app.Command("init", "Claim the barcode reader.")
	destroyCmd = app.Command("destroy", "Release the barcode reader.")
	stateCmd   = app.Command("state", "Print the current reader state.")

	readCmd    = app.Command("read", "Claim the reader and print scans as they arrive.")
	readCount  = readCmd.Flag("count", "Stop after this many scans. 0 reads until interrupted.").Default("0").Int()
	readBuffer = readCmd.Flag("buffer", "Scans held while the terminal or history is behind. Scans beyond this are dropped.").Default("100").Int()
	readStore  = readCmd.Flag("store", "Store every scan in the history database.").Bool()
	readDB     = readCmd.Flag("db", "Path of the history database.").Envar("HONEYWELLBCR_DB").Default("scans.db").String()

	historyCmd    = app.Command("history", "List the stored scans.")
	historyClear  = historyCmd.Flag("clear", "Remove all stored scans instead of listing them.").Bool()
	historyID     = historyCmd.Flag("id", "Show a single stored scan.").String()
	historyDelete = historyCmd.Flag("delete", "Remove a single stored scan.").String()
	historyDB     = historyCmd.Flag("db", "Path of the history database.").Envar("HONEYWELLBCR_DB").Default("scans.db").String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case initCmd.FullCommand():
		withClient(ctx, func(ctx context.Context, c *bcr.Client) error { return oneShot(ctx, c.Open) })
	case destroyCmd.FullCommand():
		withClient(ctx, func(ctx context.Context, c *bcr.Client) error { return oneShot(ctx, c.Release) })
	case stateCmd.FullCommand():
		withClient(ctx, func(ctx context.Context, c *bcr.Client) error { return printState(ctx, c) })
	case readCmd.FullCommand():
		withClient(ctx, func(ctx context.Context, c *bcr.Client) error { return readScans(ctx, c, *readCount) })
	case historyCmd.FullCommand():
		switch {
		case *historyClear:
			clearHistory()
		case *historyDelete != "":
			deleteScan(*historyDelete)
		case *historyID != "":
			dumpScan(*historyID)
		default:
			dumpHistory()
		}
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
}

func withClient(ctx context.Context, fn func(ctx context.Context, c *bcr.Client) error) {
	dialCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	b, err := bridge.DialWebsocket(dialCtx, *url, nil)
	if err != nil {
		log.Fatalf("Could not connect to %v: %v", *url, err)
	}
	defer b.Close()
	log.Debugf("Connected to %v", *url)

	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)
	go func() {
		select {
		case <-b.Done():
			stop(bridge.ErrClosed)
		case <-ctx.Done():
		}
	}()

	if err := fn(ctx, bcr.New(b)); err != nil {
		b.Close()
		log.Fatal(err)
	}
}

func oneShot(ctx context.Context, op func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := op(ctx); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func printState(ctx context.Context, c *bcr.Client) error {
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	s, err := c.State(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%v (%d)\n", s, int(s))
	return nil
}
