package main

import (
	"fmt"
	"time"

	"github.com/fappels/zapplica-plugin-honeywellbcr/history"
	log "github.com/sirupsen/logrus"
)

func dumpHistory() {
	db, err := history.Open(*historyDB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	records, err := db.ReadAll()
	if err != nil {
		log.Fatal(err)
	}

	if len(records) > 0 {
		fmt.Println("      Scanned at      │  Format  │ Text                                                         │ ID")
		fmt.Println("──────────────────────┼──────────┼──────────────────────────────────────────────────────────────┼─────────────────────────────────────────")
	} else {
		fmt.Println("No scans found in the database...")
	}
	for _, r := range records {
		text := r.Text
		if len(text) > 60 {
			text = fmt.Sprintf("%.59v…", text)
		}
		fmt.Printf("%21v │ %8v │ %-60v │ %v\n", r.ScannedAt.Format("2006-01-02 15:04:05"), r.Format, text, r.ID)
	}
}

func clearHistory() {
	db, err := history.Open(*historyDB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	n, err := db.Clear()
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Removed %d scans", n)
}

func dumpScan(id string) {
	db, err := history.Open(*historyDB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	r, err := db.ReadScan(id)
	if err != nil {
		log.Errorf("Could not read scan %v: %v", id, err)
		return
	}
	fmt.Printf("ID:         %v\n", r.ID)
	fmt.Printf("Scanned at: %v\n", r.ScannedAt.Format(time.RFC3339))
	fmt.Printf("Format:     %v\n", r.Format)
	fmt.Printf("Text:       %v\n", r.Text)
}

func deleteScan(id string) {
	db, err := history.Open(*historyDB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.DeleteScan(id); err != nil {
		log.Warnf("Could not remove scan %v: %v", id, err)
		return
	}
	log.Infof("Removed scan %v", id)
}
