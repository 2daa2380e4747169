package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fappels/zapplica-plugin-honeywellbcr/bcr"
	"github.com/fappels/zapplica-plugin-honeywellbcr/bridge"
	"github.com/fappels/zapplica-plugin-honeywellbcr/history"
	log "github.com/sirupsen/logrus"
)

func readScans(ctx context.Context, c *bcr.Client, count int) error {
	var db *history.DB
	if *readStore {
		var err error
		if db, err = history.Open(*readDB); err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()
	}

	openCtx, cancel := context.WithTimeout(ctx, *timeout)
	err := c.Open(openCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("claiming reader: %w", err)
	}

	reader := bcr.NewScanReader(c, *readBuffer)
	defer reader.Close()
	log.Infoln("Reader ready, waiting for scans...")

	seen := 0
	for {
		select {
		case <-ctx.Done():
			if cause := context.Cause(ctx); errors.Is(cause, bridge.ErrClosed) {
				return cause
			}
			log.Infoln("Interrupted, releasing reader")
			return nil
		case e, open := <-reader.Events():
			if !open {
				return nil
			}
			if e.Err != nil {
				log.Warnf("Read failed: %v", e.Err)
				continue
			}

			fmt.Println(e.Scan.Text)
			if db != nil {
				r, err := db.Store(history.Record{Text: e.Scan.Text, Format: e.Scan.Format})
				if err != nil {
					log.Warnf("Could not store scan %q: %v", e.Scan.Text, err)
				} else {
					log.Debugf("Stored scan %v", r.ID)
				}
			}

			seen++
			if count > 0 && seen >= count {
				return nil
			}
		}
	}
}
