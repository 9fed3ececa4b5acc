package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// inspect dumps the store namespaces in readable tables. Read-only: safe to
// run against a live server's data directory.
func main() {
	dbPath := flag.String("db", "/tmp/givelink/badger", "Path to badger DB")
	prefix := flag.String("prefix", "profile:", "Prefix to scan (profile:, conv:, msg:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Cyan.Printf("Scanning %q in %s\n\n", *prefix, *dbPath)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append(toRow(key, v))
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	color.Green.Printf("\n%d rows\n", rows)
}

func toRow(key string, val []byte) []string {
	switch {
	case strings.HasPrefix(key, "profile:"):
		var p struct {
			Email    string   `json:"email"`
			Role     string   `json:"role"`
			Name     string   `json:"name"`
			Location string   `json:"location"`
			Causes   []string `json:"causes"`
			Complete bool     `json:"complete"`
		}
		if err := json.Unmarshal(val, &p); err != nil {
			break
		}
		return []string{key, "PROFILE", "", p.Email,
			fmt.Sprintf("%s (%s) %s complete=%t causes=%s",
				p.Name, p.Role, p.Location, p.Complete, strings.Join(p.Causes, ","))}

	case strings.HasPrefix(key, "conv:"):
		var c struct {
			Participants []string `json:"participants"`
			LastMessage  *string  `json:"last_message"`
			CreatedAt    string   `json:"created_at"`
		}
		if err := json.Unmarshal(val, &c); err != nil {
			break
		}
		last := "-"
		if c.LastMessage != nil {
			last = *c.LastMessage
		}
		return []string{key, "CONV", c.CreatedAt, strings.Join(c.Participants, " <-> "), last}

	case strings.HasPrefix(key, "msg:"):
		var m struct {
			SenderID string `json:"sender_id"`
			Text     string `json:"text"`
			At       int64  `json:"at"`
		}
		if err := json.Unmarshal(val, &m); err != nil {
			break
		}
		return []string{key, "MSG", time.Unix(0, m.At).Format("15:04:05"), m.SenderID, m.Text}
	}

	return []string{key, "RAW", "", "", fmt.Sprintf("Size: %d bytes", len(val))}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
